// Package app connects the protocol client, the surfaces and the viewer
// session, and drives them from the event loop.
package app

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/1broseidon/wlview/internal/config"
	"github.com/1broseidon/wlview/internal/imageio"
	"github.com/1broseidon/wlview/internal/input"
	"github.com/1broseidon/wlview/internal/logging"
	"github.com/1broseidon/wlview/internal/loop"
	"github.com/1broseidon/wlview/internal/output"
	"github.com/1broseidon/wlview/internal/shm"
	"github.com/1broseidon/wlview/internal/surface"
	"github.com/1broseidon/wlview/internal/thumbs"
	"github.com/1broseidon/wlview/internal/viewer"
	"github.com/1broseidon/wlview/internal/wayland"
)

// Config holds the dependencies of an App. Zero fields get production
// defaults.
type Config struct {
	Settings *config.Config
	Logger   *slog.Logger
	// Alloc backs buffer pools; nil means memfd.
	Alloc shm.Allocator
	// Load decodes images; nil means imageio.Load.
	Load viewer.Loader
	// Thumbnail renders gallery thumbnails on the worker goroutine.
	Thumbnail thumbs.Func
	Clock     loop.Clock
}

// App is one run: either a viewer window or a set of wallpaper backgrounds.
// All methods run on the loop goroutine.
type App struct {
	client   *wayland.Client
	settings *config.Config
	log      *slog.Logger
	alloc    shm.Allocator
	load     viewer.Loader
	thumb    thumbs.Func
	now      loop.Clock

	globals  *wayland.Globals
	outputs  *output.Tracker
	pool     *shm.Pool
	surfaces *surface.Controller
	running  bool

	keyboard wayland.ObjectID
	keys     input.Keyboard
	session  *viewer.Session
	bridge   *thumbs.Bridge
	window   surface.ID

	wallpaper *wallpaper
}

// New wraps a connected client. Call StartViewer or StartWallpaper next.
func New(client *wayland.Client, cfg Config) *App {
	if cfg.Settings == nil {
		cfg.Settings = config.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Load == nil {
		cfg.Load = imageio.Load
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Thumbnail == nil {
		size := cfg.Settings.Gallery.ThumbnailSize
		cfg.Thumbnail = func(it thumbs.Item) (*image.RGBA, error) {
			return imageio.Thumbnail(it.Path, size)
		}
	}
	return &App{
		client:   client,
		settings: cfg.Settings,
		log:      cfg.Logger,
		alloc:    cfg.Alloc,
		load:     cfg.Load,
		thumb:    cfg.Thumbnail,
		now:      cfg.Clock,
	}
}

// setup binds the globals, builds the surface machinery and applies the
// initial state events queued during binding. Outputs are frozen afterwards.
func (a *App) setup(wants wayland.Wants) error {
	g, err := a.client.BindGlobals(wants)
	if err != nil {
		return err
	}
	a.globals = g
	a.outputs = output.NewTracker(logging.Component(a.log, "output"))
	for _, o := range g.Outputs {
		a.outputs.Add(o.Name, o.Object)
	}
	a.pool = shm.NewPool(a.client, g.Shm, a.alloc, logging.Component(a.log, "shm"))
	a.surfaces = surface.NewController(a.client, a.pool, surface.Handles{
		Compositor: g.Compositor,
		WmBase:     g.WmBase,
		LayerShell: g.LayerShell,
	}, a.outputs, surface.Options{
		DefaultWidth:  a.settings.Window.DefaultWidth,
		DefaultHeight: a.settings.Window.DefaultHeight,
		Logger:        logging.Component(a.log, "surface"),
	})
	a.running = true

	if err := a.Dispatch(); err != nil {
		return err
	}
	a.outputs.Freeze()
	return nil
}

// Run drives the loop until the app stops or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if a.globals == nil {
		return errors.New("app: not started")
	}
	return loop.Run(ctx, a.client, a, a.now)
}

// Close tears down surfaces, buffers and the worker, then disconnects.
func (a *App) Close() error {
	if a.bridge != nil {
		a.bridge.Close()
	}
	if a.surfaces != nil {
		a.surfaces.CloseAll()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if err := a.client.Flush(); err != nil {
		a.log.Debug("final flush failed", "error", err)
	}
	return a.client.Close()
}

func (a *App) Flush() error {
	return a.client.Flush()
}

func (a *App) Running() bool {
	return a.running
}

func (a *App) WakeDeadline(now time.Time) (time.Time, bool) {
	if a.session == nil {
		return time.Time{}, false
	}
	waiting := a.bridge != nil && !a.bridge.Dead() && a.bridge.PendingLen() > 0
	return loop.WakeDeadline(a.session.Timers(now, waiting)...)
}

func (a *App) Dispatch() error {
	events, err := a.client.Dispatch()
	if err != nil {
		return err
	}
	for _, ev := range events {
		a.handle(ev)
	}
	return nil
}

func (a *App) Tick(now time.Time) error {
	if a.session == nil {
		return nil
	}
	redraw := false
	if a.bridge != nil && a.session.Thumbnails(a.bridge.Poll()) {
		redraw = true
	}
	if a.session.Tick(now) {
		redraw = true
	}
	if redraw {
		a.surfaces.MarkDirty(a.window)
	}
	return nil
}

func (a *App) Redraw() error {
	for _, id := range a.surfaces.Dirty() {
		s, ok := a.surfaces.Get(id)
		if !ok {
			continue
		}
		var err error
		switch s.Kind {
		case surface.KindWindow:
			err = a.drawWindow(s)
		case surface.KindBackground:
			err = a.drawBackground(s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) handle(ev wayland.Event) {
	if a.outputs.Handle(ev) {
		return
	}
	if ch, ok := a.surfaces.Handle(ev); ok {
		a.surfaceChanged(ch)
		return
	}

	switch e := ev.(type) {
	case wayland.SeatCapabilities:
		a.seatCapabilities(e)
	case wayland.Global:
		if e.Interface == wayland.IfaceOutput.String() {
			a.outputs.Add(e.Name, 0)
			return
		}
		a.log.Debug("ignoring global advertised after startup", "interface", e.Interface, "name", e.Name)
	case wayland.GlobalRemove:
		a.outputs.Remove(e.Name)
	case wayland.ShmFormat, wayland.SeatName, wayland.CallbackDone:
	default:
		if a.keyboard != 0 && ev.Source() == a.keyboard {
			a.key(ev)
		}
	}
}

func (a *App) surfaceChanged(ch surface.Change) {
	switch ch.Kind {
	case surface.ChangeFrame:
		a.frameDone(ch.ID)
		return
	case surface.ChangeClosed:
	default:
		return
	}
	switch {
	case ch.SurfaceKind == surface.KindWindow:
		a.log.Info("window closed by compositor")
		a.running = false
	case a.surfaces.Len() == 0:
		a.log.Info("all backgrounds closed")
		a.running = false
	default:
		a.log.Info("background closed", "surface", ch.ID, "remaining", a.surfaces.Len())
	}
}

// frameDone runs the session clock when the compositor shows the window's
// last frame, so animation steps land on presented frames. The session's own
// timers still decide whether anything is due.
func (a *App) frameDone(id surface.ID) {
	if a.session == nil || id != a.window {
		return
	}
	if a.session.Tick(a.now()) {
		a.surfaces.MarkDirty(id)
	}
}

func (a *App) seatCapabilities(e wayland.SeatCapabilities) {
	has := e.Capabilities&wayland.SeatCapabilityKeyboard != 0
	switch {
	case has && a.keyboard == 0 && a.session != nil:
		a.keyboard = a.client.GetKeyboard(e.Source())
		a.log.Debug("keyboard acquired", "object", a.keyboard)
	case !has && a.keyboard != 0:
		a.log.Warn("seat lost its keyboard")
		a.keyboard = 0
	}
}
