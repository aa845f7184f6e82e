package app

import (
	"fmt"
	"image"

	"github.com/1broseidon/wlview/internal/render"
	"github.com/1broseidon/wlview/internal/shm"
	"github.com/1broseidon/wlview/internal/surface"
	"github.com/1broseidon/wlview/internal/wayland"
)

// wallpaper is the decoded source and its cover crops, keyed by output size.
type wallpaper struct {
	path   string
	source *image.RGBA
	crops  map[image.Point]*image.RGBA
}

func (w *wallpaper) crop(width, height int) *image.RGBA {
	key := image.Pt(width, height)
	if c, ok := w.crops[key]; ok {
		return c
	}
	c := render.CoverCrop(w.source, width, height)
	w.crops[key] = c
	return c
}

// StartWallpaper decodes path and creates one background surface per output.
// Animated images show their first frame. With no outputs there is nothing
// to cover and the app stops at once.
func (a *App) StartWallpaper(path string) error {
	img, err := a.load(path)
	if err != nil {
		return fmt.Errorf("load wallpaper: %w", err)
	}
	a.wallpaper = &wallpaper{
		path:   path,
		source: img.Frames[0],
		crops:  map[image.Point]*image.RGBA{},
	}

	if err := a.setup(wayland.Wants{Background: true}); err != nil {
		return err
	}

	outs := a.outputs.Outputs()
	if len(outs) == 0 {
		a.log.Warn("no outputs to cover")
		a.running = false
		return nil
	}
	ids, err := a.surfaces.CreateBackgrounds(outs, a.settings.Wallpaper.Namespace)
	if err != nil {
		return err
	}
	w, h := img.Size()
	a.log.Info("wallpaper started", "path", path, "width", w, "height", h, "outputs", len(ids))
	return nil
}

// drawBackground presents the cover crop for the surface size. A surface
// that cannot be presented is closed; losing the last one is fatal.
func (a *App) drawBackground(s surface.Surface) error {
	crop := a.wallpaper.crop(s.Width, s.Height)
	bg := a.settings.Background()
	err := a.surfaces.Present(s.ID, func(b *shm.Buffer) {
		c := render.NewCanvas(b.Pix, b.Width, b.Height)
		c.Clear(bg)
		c.Blit(crop, image.Point{})
	})
	if err == nil {
		return nil
	}

	a.log.Warn("background failed", "output", s.Output.String(), "error", err)
	a.surfaces.Close(s.ID)
	if a.surfaces.Len() == 0 {
		return fmt.Errorf("no background could be presented: %w", err)
	}
	return nil
}
