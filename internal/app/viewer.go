package app

import (
	"github.com/1broseidon/wlview/internal/input"
	"github.com/1broseidon/wlview/internal/logging"
	"github.com/1broseidon/wlview/internal/render"
	"github.com/1broseidon/wlview/internal/shm"
	"github.com/1broseidon/wlview/internal/surface"
	"github.com/1broseidon/wlview/internal/thumbs"
	"github.com/1broseidon/wlview/internal/viewer"
	"github.com/1broseidon/wlview/internal/wayland"
)

// StartViewer opens the window over paths. An empty or fully undecodable
// list still opens the window with a message.
func (a *App) StartViewer(paths []string) error {
	opts := viewer.OptionsFromConfig(a.settings)
	opts.Load = a.load
	opts.Logger = a.log
	a.session = viewer.New(paths, opts)
	eff := a.session.Start(a.now())

	if err := a.setup(wayland.Wants{Window: true}); err != nil {
		return err
	}
	if a.keyboard == 0 {
		a.log.Warn("no keyboard available, the window can only be closed by the compositor")
	}

	id, err := a.surfaces.CreateWindow(a.session.Title(), a.settings.Window.AppID)
	if err != nil {
		return err
	}
	a.window = id
	a.bridge = thumbs.New(a.thumb, logging.Component(a.log, "thumbs"), thumbs.WithWake(a.client.Wake))
	eff.Title = false
	a.apply(eff)

	a.log.Info("viewer started", "images", len(a.session.Paths()))
	return nil
}

func (a *App) key(ev wayland.Event) {
	key, ok := a.keys.Handle(ev)
	if !ok {
		return
	}
	cmd, ok := input.Map(key, a.session.Mode())
	if !ok {
		return
	}
	a.apply(a.session.Apply(cmd, a.now()))
}

func (a *App) apply(eff viewer.Effect) {
	if eff.Quit {
		a.running = false
		return
	}
	if eff.Title {
		a.surfaces.SetTitle(a.window, a.session.Title())
	}
	if eff.ToggleFullscreen {
		if s, ok := a.surfaces.Get(a.window); ok {
			a.surfaces.SetFullscreen(a.window, !s.Fullscreen)
		}
	}
	if eff.Redraw {
		a.surfaces.MarkDirty(a.window)
	}
}

// drawWindow asks for the thumbnails the new frame will show, then renders.
// Animated content requests a frame callback so the compositor paces it.
func (a *App) drawWindow(s surface.Surface) error {
	if items := a.session.Want(s.Width, s.Height); len(items) > 0 {
		a.bridge.Request(items)
	}
	if a.session.Animating() {
		a.surfaces.RequestFrame(s.ID)
	}
	return a.surfaces.Present(s.ID, func(b *shm.Buffer) {
		a.session.Draw(render.NewCanvas(b.Pix, b.Width, b.Height))
	})
}
