package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/1broseidon/wlview/internal/imageio"
	"github.com/1broseidon/wlview/internal/loop"
)

// FormatStatus renders "name | WxH | size | mtime | [i/n]" with a 0-based
// index.
func FormatStatus(path string, w, h int, meta imageio.FileMeta, index, total int) string {
	mtime := "?"
	if !meta.ModTime.IsZero() {
		mtime = meta.ModTime.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s | %dx%d | %s | %s | [%d/%d]",
		filepath.Base(path), w, h, FormatSize(meta.Size), mtime, index+1, total)
}

// FormatSize formats a byte count with one decimal in decimal units.
func FormatSize(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%d.%d MB", n/1_000_000, n%1_000_000/100_000)
	case n >= 1_000:
		return fmt.Sprintf("%d.%d KB", n/1_000, n%1_000/100)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Message is a transient overlay text that disappears after a deadline.
type Message struct {
	Text  string
	until time.Time
}

// Show displays text for d.
func (m *Message) Show(text string, now time.Time, d time.Duration) {
	m.Text = text
	m.until = now.Add(d)
}

func (m *Message) Clear() {
	m.Text = ""
	m.until = time.Time{}
}

func (m *Message) Visible() bool { return m.Text != "" }

// Expire clears the message once its deadline passed and reports whether
// it did.
func (m *Message) Expire(now time.Time) bool {
	if !m.Visible() || now.Before(m.until) {
		return false
	}
	m.Clear()
	return true
}

// Timer is armed while the message is visible.
func (m *Message) Timer() loop.Timer {
	if !m.Visible() {
		return loop.Timer{}
	}
	return loop.At(m.until)
}
