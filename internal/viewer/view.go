// Package viewer holds the interactive state of a viewing session: the
// single-image view with zoom, pan and animation, the thumbnail gallery,
// and the status overlays.
package viewer

import (
	"image"
	"math"
	"time"

	"github.com/1broseidon/wlview/internal/imageio"
	"github.com/1broseidon/wlview/internal/input"
	"github.com/1broseidon/wlview/internal/loop"
	"github.com/1broseidon/wlview/internal/render"
)

const (
	// PanFrame is the redraw interval while a pan key is held.
	PanFrame = 16 * time.Millisecond
	// maxPanStep caps one pan step when the loop stalls.
	maxPanStep = 100 * time.Millisecond
)

type scaleKey struct {
	src   *image.RGBA
	scale float64
}

// View is the zoom, pan and animation state of the displayed image.
type View struct {
	step     float64
	speed    float64
	fit      bool
	zoom     float64
	fitScale float64

	panX, panY float64
	held       [4]bool
	lastPan    time.Time

	frame     int
	nextFrame time.Time

	scaled *image.RGBA
	key    scaleKey
}

// NewView returns a view at zoom 1. step must be > 1 and speed is in pixels
// per second.
func NewView(step, speed float64, fit bool) *View {
	return &View{step: step, speed: speed, fit: fit, zoom: 1, fitScale: 1}
}

// Reset returns to the unzoomed, unpanned first frame.
func (v *View) Reset() {
	v.zoom = 1
	v.stopPan()
	v.frame = 0
	v.nextFrame = time.Time{}
	v.scaled = nil
}

func (v *View) Zoom() float64 { return v.zoom }

// Zoomed reports whether the image is magnified past its fitted size.
func (v *View) Zoomed() bool { return v.zoom > 1 }

func (v *View) ZoomIn() { v.zoom *= v.step }

func (v *View) ZoomOut() {
	v.zoom = math.Max(v.zoom/v.step, 1)
	if v.zoom <= 1 {
		v.stopPan()
	}
}

func (v *View) ZoomReset() {
	v.zoom = 1
	v.stopPan()
}

// ActualSize zooms so that one image pixel covers one buffer pixel.
func (v *View) ActualSize() {
	if v.fitScale > 0 {
		v.zoom = math.Max(1/v.fitScale, 1)
	}
	if v.zoom <= 1 {
		v.stopPan()
	}
}

// ToggleFit switches between shrink-only and upscale-to-window fitting.
func (v *View) ToggleFit() {
	v.fit = !v.fit
	v.zoom = 1
	v.stopPan()
	v.scaled = nil
}

func (v *View) FitToWindow() bool { return v.fit }

// PanStart holds a pan direction. It is ignored unless zoomed.
func (v *View) PanStart(dir input.Direction, now time.Time) {
	if !v.Zoomed() {
		return
	}
	v.held[dir] = true
	if v.lastPan.IsZero() {
		v.lastPan = now
	}
}

func (v *View) PanStop(dir input.Direction) {
	v.held[dir] = false
}

// Panning reports whether any pan direction is held.
func (v *View) Panning() bool {
	return v.held[0] || v.held[1] || v.held[2] || v.held[3]
}

// Pan returns the current offset from center in pixels.
func (v *View) Pan() image.Point {
	return image.Pt(int(math.Round(v.panX)), int(math.Round(v.panY)))
}

func (v *View) stopPan() {
	v.panX, v.panY = 0, 0
	v.held = [4]bool{}
	v.lastPan = time.Time{}
}

// TickPan moves the image at constant speed for the time since the last
// step. It reports whether panning continues.
func (v *View) TickPan(now time.Time) bool {
	if !v.Panning() {
		v.lastPan = time.Time{}
		return false
	}
	if !v.Zoomed() {
		v.stopPan()
		return false
	}
	var dt float64
	if !v.lastPan.IsZero() {
		dt = min(now.Sub(v.lastPan), maxPanStep).Seconds()
	}
	v.lastPan = now
	if dt <= 0 {
		return true
	}

	var dx, dy float64
	if v.held[input.Left] {
		dx++
	}
	if v.held[input.Right] {
		dx--
	}
	if v.held[input.Up] {
		dy++
	}
	if v.held[input.Down] {
		dy--
	}
	if l := math.Hypot(dx, dy); l > 0 {
		dx /= l
		dy /= l
	}
	v.panX += dx * v.speed * dt
	v.panY += dy * v.speed * dt
	return true
}

// PanTimer is armed while a pan key is held.
func (v *View) PanTimer(now time.Time) loop.Timer {
	if !v.Panning() {
		return loop.Timer{}
	}
	return loop.After(now, PanFrame)
}

// StartAnimation restarts playback of img from its first frame.
func (v *View) StartAnimation(img *imageio.Image, now time.Time) {
	v.frame = 0
	v.nextFrame = time.Time{}
	if img != nil && img.Animated() {
		v.nextFrame = now.Add(img.Delays[0])
	}
}

// StopAnimation disarms the frame timer.
func (v *View) StopAnimation() {
	v.nextFrame = time.Time{}
}

// Frame returns the index of the displayed frame.
func (v *View) Frame() int { return v.frame }

// AdvanceFrame steps to the next frame once its delay has passed.
func (v *View) AdvanceFrame(img *imageio.Image, now time.Time) bool {
	if img == nil || !img.Animated() || v.nextFrame.IsZero() || now.Before(v.nextFrame) {
		return false
	}
	v.frame = (v.frame + 1) % len(img.Frames)
	v.nextFrame = now.Add(img.Delays[v.frame])
	return true
}

// FrameTimer is armed while an animation plays.
func (v *View) FrameTimer() loop.Timer {
	if v.nextFrame.IsZero() {
		return loop.Timer{}
	}
	return loop.At(v.nextFrame)
}

// Draw composites the current frame of img onto c, fitted, zoomed and
// panned. The pan is clamped so image edges stay inside the canvas.
func (v *View) Draw(c *render.Canvas, img *imageio.Image) {
	if img == nil || len(img.Frames) == 0 || c.Width == 0 || c.Height == 0 {
		return
	}
	f := img.Frames[min(v.frame, len(img.Frames)-1)]
	b := f.Bounds()
	if b.Empty() {
		return
	}

	v.fitScale = render.FitScale(b.Dx(), b.Dy(), c.Width, c.Height, v.fit)
	key := scaleKey{src: f, scale: v.fitScale * v.zoom}
	if v.scaled == nil || v.key != key {
		v.scaled = render.ScaleBy(f, key.scale)
		v.key = key
	}

	size := v.scaled.Bounds().Size()
	maxX := float64(max((size.X-c.Width)/2, 0))
	maxY := float64(max((size.Y-c.Height)/2, 0))
	v.panX = math.Max(-maxX, math.Min(v.panX, maxX))
	v.panY = math.Max(-maxY, math.Min(v.panY, maxY))

	c.Centered(v.scaled, v.Pan())
}
