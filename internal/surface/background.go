package surface

import (
	"fmt"

	"github.com/1broseidon/wlview/internal/output"
	"github.com/1broseidon/wlview/internal/wayland"
	"github.com/1broseidon/wlview/internal/wayland/layershell"
)

// CreateBackgrounds creates one background layer surface per output,
// anchored to every edge, ignoring exclusive zones and never taking keyboard
// focus. The compositor picks the size.
func (c *Controller) CreateBackgrounds(outputs []output.Output, namespace string) ([]ID, error) {
	if c.handles.LayerShell == 0 {
		return nil, fmt.Errorf("surface: zwlr_layer_shell_v1 is not bound")
	}
	if err := c.claimKind(KindBackground); err != nil {
		return nil, err
	}

	ids := make([]ID, 0, len(outputs))
	for _, out := range outputs {
		s := &Surface{Kind: KindBackground, State: StateCreated, Output: out}
		s.wl = c.proto.CreateSurface(c.handles.Compositor)
		s.role = c.proto.GetLayerSurface(c.handles.LayerShell, s.wl, out.Object, layershell.LayerBackground, namespace)
		c.proto.LayerSurfaceSetAnchor(s.role, layershell.AnchorAll)
		c.proto.LayerSurfaceSetExclusiveZone(s.role, -1)
		c.proto.LayerSurfaceSetKeyboardInteractivity(s.role, layershell.KeyboardInteractivityNone)
		c.proto.LayerSurfaceSetSize(s.role, 0, 0)
		c.proto.SurfaceCommit(s.wl)
		s.State = StateConfigurePending
		ids = append(ids, c.add(s))
	}
	return ids, nil
}

// configureBackground acks, resolves a 0x0 size from the output mode, and
// schedules the single render. Later configures of the same size only
// commit.
func (c *Controller) configureBackground(s *Surface, e wayland.LayerSurfaceConfigure) Change {
	c.proto.LayerSurfaceAckConfigure(s.role, e.Serial)

	w, h := int(e.Width), int(e.Height)
	if w == 0 || h == 0 {
		if out, ok := c.outputs.ByObject(s.Output.Object); ok && out.Known {
			s.Output = out
			w, h = out.Width, out.Height
		}
	}
	if w == 0 || h == 0 {
		w, h = s.Width, s.Height
	}
	if w == 0 || h == 0 {
		c.log.Warn("background size unknown, using default", "output", s.Output.String())
		w, h = c.defaultW, c.defaultH
	}

	first := s.State != StateReady
	resized := first || w != s.Width || h != s.Height
	s.Width, s.Height = w, h
	s.State = StateReady
	if resized {
		s.dirty = true
		c.log.Debug("background configured", "output", s.Output.String(), "width", w, "height", h)
	} else if !s.dirty {
		c.proto.SurfaceCommit(s.wl)
	}
	return Change{ID: s.ID, Kind: ChangeConfigured, SurfaceKind: KindBackground, Resized: resized}
}
