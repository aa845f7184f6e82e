package viewer

import (
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/1broseidon/wlview/internal/config"
	"github.com/1broseidon/wlview/internal/imageio"
	"github.com/1broseidon/wlview/internal/input"
	"github.com/1broseidon/wlview/internal/loop"
	"github.com/1broseidon/wlview/internal/render"
	"github.com/1broseidon/wlview/internal/thumbs"
)

// Loader decodes one image.
type Loader func(path string) (*imageio.Image, error)

// Options configures a Session.
type Options struct {
	Title         string
	ZoomStep      float64
	PanSpeed      float64
	FitToWindow   bool
	ThumbnailSize int
	Background    uint32
	ErrorDuration time.Duration
	ToastDuration time.Duration
	PollInterval  time.Duration
	Load          Loader
	Logger        *slog.Logger
}

// OptionsFromConfig maps the configuration file onto session options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Title:         cfg.Window.Title,
		ZoomStep:      cfg.Viewer.ZoomStep,
		PanSpeed:      cfg.Viewer.PanSpeed,
		FitToWindow:   cfg.Viewer.FitToWindow,
		ThumbnailSize: cfg.Gallery.ThumbnailSize,
		Background:    cfg.Background(),
		ErrorDuration: cfg.ErrorDuration(),
		ToastDuration: cfg.ToastDuration(),
		PollInterval:  cfg.PollInterval(),
	}
}

// Effect tells the caller what an input or tick requires.
type Effect struct {
	Quit             bool
	Redraw           bool
	Title            bool
	ToggleFullscreen bool
}

// Session is the state of one interactive run over a list of images.
type Session struct {
	opts Options
	log  *slog.Logger

	paths   []string
	index   int
	mode    input.Mode
	view    *View
	gallery *Gallery

	image      *imageio.Image
	imagePath  string
	sort       imageio.SortMode
	meta       imageio.MetaCache
	errMsg     Message
	toast      Message
	background uint32
}

// New returns a session over paths, which it takes ownership of.
func New(paths []string, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Load == nil {
		opts.Load = imageio.Load
	}
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = config.DefaultZoomStep
	}
	if opts.PanSpeed <= 0 {
		opts.PanSpeed = config.DefaultPanSpeed
	}
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = config.DefaultThumbnailSize
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Duration(config.DefaultPollIntervalMS) * time.Millisecond
	}
	if opts.Title == "" {
		opts.Title = "wlview"
	}
	return &Session{
		opts:       opts,
		log:        opts.Logger,
		paths:      paths,
		view:       NewView(opts.ZoomStep, opts.PanSpeed, opts.FitToWindow),
		gallery:    NewGallery(opts.ThumbnailSize),
		meta:       imageio.MetaCache{},
		background: opts.Background,
	}
}

func (s *Session) Paths() []string       { return s.paths }
func (s *Session) Index() int            { return s.index }
func (s *Session) Mode() input.Mode      { return s.mode }
func (s *Session) View() *View           { return s.view }
func (s *Session) Gallery() *Gallery     { return s.gallery }
func (s *Session) Image() *imageio.Image { return s.image }
func (s *Session) Empty() bool           { return len(s.paths) == 0 }

// ErrorText returns the transient error message, if any.
func (s *Session) ErrorText() string { return s.errMsg.Text }

// ToastText returns the toast message, if any.
func (s *Session) ToastText() string { return s.toast.Text }

// Title returns the window title for the current image.
func (s *Session) Title() string {
	if s.Empty() {
		return s.opts.Title
	}
	return s.opts.Title + " - " + filepath.Base(s.paths[s.index])
}

// Start loads the first image.
func (s *Session) Start(now time.Time) Effect {
	s.load(now)
	s.view.StartAnimation(s.image, now)
	return Effect{Redraw: true, Title: true}
}

// load decodes the current path. Files that fail to decode are dropped from
// the list with a transient message, and the next one is tried.
func (s *Session) load(now time.Time) {
	for !s.Empty() {
		path := s.paths[s.index]
		if s.image != nil && s.imagePath == path {
			return
		}
		img, err := s.opts.Load(path)
		if err == nil {
			s.image, s.imagePath = img, path
			return
		}

		s.log.Warn("failed to load image", "path", path, "error", err)
		s.image, s.imagePath = nil, ""
		s.paths = slices.Delete(s.paths, s.index, s.index+1)
		if s.Empty() {
			s.errMsg.Show("No valid images", now, s.opts.ErrorDuration)
			break
		}
		if s.index >= len(s.paths) {
			s.index = 0
		}
		s.gallery.Selected = min(s.gallery.Selected, len(s.paths)-1)
		s.errMsg.Show("Skipped: "+filepath.Base(path), now, s.opts.ErrorDuration)
	}
	s.index = 0
	s.gallery.Selected = 0
}

func (s *Session) navigate(i int, now time.Time) Effect {
	if s.Empty() {
		return Effect{}
	}
	n := len(s.paths)
	s.index = ((i % n) + n) % n
	s.view.Reset()
	s.errMsg.Clear()
	s.load(now)
	s.view.StartAnimation(s.image, now)
	return Effect{Redraw: true, Title: true}
}

// Apply performs one input command.
func (s *Session) Apply(cmd input.Command, now time.Time) Effect {
	redraw := Effect{Redraw: true}
	switch cmd.Action {
	case input.Quit:
		return Effect{Quit: true}
	case input.EscapeOrQuit:
		switch {
		case s.mode == input.ModeGallery:
			s.mode = input.ModeViewer
			return s.navigate(s.gallery.Selected, now)
		case s.view.Zoomed():
			s.view.ZoomReset()
			return redraw
		default:
			return Effect{Quit: true}
		}
	case input.ToggleMode:
		if s.mode == input.ModeViewer {
			s.mode = input.ModeGallery
			s.gallery.Selected = s.index
			s.view.StopAnimation()
			s.view.stopPan()
			return redraw
		}
		s.mode = input.ModeViewer
		return s.navigate(s.gallery.Selected, now)
	case input.CycleSort:
		s.cycleSort(now)
		return redraw

	case input.NextImage:
		return s.navigate(s.index+1, now)
	case input.PrevImage:
		return s.navigate(s.index-1, now)
	case input.FirstImage:
		return s.navigate(0, now)
	case input.LastImage:
		return s.navigate(len(s.paths)-1, now)
	case input.ZoomIn:
		s.view.ZoomIn()
		return redraw
	case input.ZoomOut:
		s.view.ZoomOut()
		return redraw
	case input.ZoomReset:
		s.view.ZoomReset()
		return redraw
	case input.ActualSize:
		s.view.ActualSize()
		return redraw
	case input.FitToWindow:
		s.view.ToggleFit()
		return redraw
	case input.PanStart:
		if s.view.Zoomed() {
			s.view.PanStart(cmd.Dir, now)
			return Effect{}
		}
		switch cmd.Dir {
		case input.Left:
			return s.navigate(s.index-1, now)
		case input.Right:
			return s.navigate(s.index+1, now)
		}
		return Effect{}
	case input.PanStop:
		s.view.PanStop(cmd.Dir)
		return Effect{}
	case input.Fullscreen:
		return Effect{ToggleFullscreen: true}
	case input.RotateCW, input.RotateCCW:
		if s.image == nil {
			return Effect{}
		}
		s.image.Rotate(cmd.Action == input.RotateCW)
		s.view.ZoomReset()
		return redraw

	case input.MoveLeft, input.MoveRight, input.MoveUp, input.MoveDown:
		s.gallery.Move(cmd.Dir, len(s.paths))
		return redraw
	case input.GalleryFirst:
		s.gallery.First()
		return redraw
	case input.GalleryLast:
		s.gallery.Last(len(s.paths))
		return redraw
	}
	return Effect{}
}

// cycleSort re-sorts by the next mode, keeping the current image selected.
func (s *Session) cycleSort(now time.Time) {
	if s.Empty() {
		return
	}
	current := s.paths[s.index]
	s.sort = s.sort.Next()
	imageio.SortPaths(s.paths, s.sort, s.meta)
	if i := slices.Index(s.paths, current); i >= 0 {
		s.index = i
	}
	s.gallery.Selected = s.index
	s.toast.Show("Sort: "+s.sort.String(), now, s.opts.ToastDuration)
	s.log.Debug("sorted images", "mode", s.sort.String())
}

// SortMode returns the current ordering.
func (s *Session) SortMode() imageio.SortMode { return s.sort }

// Tick advances animation and pan, and expires messages. It reports whether
// the window needs a redraw.
func (s *Session) Tick(now time.Time) bool {
	redraw := false
	if s.mode == input.ModeViewer {
		if s.view.AdvanceFrame(s.image, now) {
			redraw = true
		}
		if s.view.TickPan(now) {
			redraw = true
		}
	}
	if s.errMsg.Expire(now) {
		redraw = true
	}
	if s.toast.Expire(now) {
		redraw = true
	}
	return redraw
}

// Timers returns the deadlines the loop must wake for. waiting is true while
// thumbnails are outstanding.
func (s *Session) Timers(now time.Time, waiting bool) []loop.Timer {
	timers := []loop.Timer{s.errMsg.Timer(), s.toast.Timer()}
	switch s.mode {
	case input.ModeViewer:
		timers = append(timers, s.view.FrameTimer(), s.view.PanTimer(now))
	case input.ModeGallery:
		if waiting {
			timers = append(timers, loop.After(now, s.opts.PollInterval))
		}
	}
	return timers
}

// Animating reports whether frames keep coming without input.
func (s *Session) Animating() bool {
	return s.mode == input.ModeViewer && (s.view.FrameTimer().Armed || s.view.Panning())
}

// Want returns the thumbnails the gallery needs for a window of winW x winH.
// It is empty outside gallery mode.
func (s *Session) Want(winW, winH int) []thumbs.Item {
	if s.mode != input.ModeGallery || winW <= 0 || winH <= 0 {
		return nil
	}
	s.gallery.Layout(winW, winH)
	return s.gallery.Want(s.paths, winH)
}

// Thumbnails stores worker results and reports whether the gallery changed
// on screen.
func (s *Session) Thumbnails(results []thumbs.Result) bool {
	for _, r := range results {
		if r.Err != nil {
			s.log.Debug("thumbnail failed", "path", r.Path, "error", r.Err)
		}
	}
	return s.gallery.Store(results) && s.mode == input.ModeGallery
}

// Draw renders the session onto c.
func (s *Session) Draw(c *render.Canvas) {
	c.Clear(s.background)
	if s.mode == input.ModeGallery {
		s.gallery.Layout(c.Width, c.Height)
		s.gallery.Draw(c, s.paths, s.background)
	} else if s.image != nil {
		s.view.Draw(c, s.image)
	}

	switch {
	case s.errMsg.Visible():
		c.StatusBar(s.errMsg.Text, render.ErrorColor)
	case s.mode == input.ModeViewer && s.image != nil:
		w, h := s.image.Size()
		path := s.paths[s.index]
		c.StatusBar(FormatStatus(path, w, h, s.meta.Get(path), s.index, len(s.paths)), render.TextColor)
	}
	if s.toast.Visible() {
		c.Toast(s.toast.Text)
	}
}
