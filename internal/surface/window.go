package surface

import "fmt"

// CreateWindow creates the toplevel window. The first configure decides its
// size.
func (c *Controller) CreateWindow(title, appID string) (ID, error) {
	if c.handles.WmBase == 0 {
		return 0, fmt.Errorf("surface: xdg_wm_base is not bound")
	}
	if err := c.claimKind(KindWindow); err != nil {
		return 0, err
	}

	s := &Surface{Kind: KindWindow, State: StateCreated}
	s.wl = c.proto.CreateSurface(c.handles.Compositor)
	s.role = c.proto.GetXdgSurface(c.handles.WmBase, s.wl)
	s.toplevel = c.proto.GetToplevel(s.role)
	c.proto.ToplevelSetTitle(s.toplevel, title)
	c.proto.ToplevelSetAppID(s.toplevel, appID)
	c.proto.SurfaceCommit(s.wl)
	s.State = StateConfigurePending
	return c.add(s), nil
}

// SetTitle updates the window title.
func (c *Controller) SetTitle(id ID, title string) {
	if s, ok := c.surfaces[id]; ok && s.Kind == KindWindow {
		c.proto.ToplevelSetTitle(s.toplevel, title)
	}
}

// SetFullscreen asks the compositor to enter or leave fullscreen. The
// resulting configure carries the new size.
func (c *Controller) SetFullscreen(id ID, on bool) {
	s, ok := c.surfaces[id]
	if !ok || s.Kind != KindWindow {
		return
	}
	if on {
		c.proto.ToplevelSetFullscreen(s.toplevel)
	} else {
		c.proto.ToplevelUnsetFullscreen(s.toplevel)
	}
}

// configureWindow acks the configure, then settles the size: a 0x0 suggestion
// keeps the current size, or the default before the first frame.
func (c *Controller) configureWindow(s *Surface, serial uint32) Change {
	c.proto.XdgSurfaceAckConfigure(s.role, serial)

	w, h := s.pendingW, s.pendingH
	if w <= 0 || h <= 0 {
		w, h = s.Width, s.Height
	}
	if w <= 0 || h <= 0 {
		w, h = c.defaultW, c.defaultH
	}

	first := s.State != StateReady
	resized := first || w != s.Width || h != s.Height
	s.Width, s.Height = w, h
	s.Fullscreen = s.pendingFullscreen
	s.State = StateReady

	if resized {
		s.dirty = true
		c.log.Debug("window configured", "width", w, "height", h, "fullscreen", s.Fullscreen)
	} else if !s.dirty {
		// Same size: commit so the ack takes effect without a new buffer.
		c.proto.SurfaceCommit(s.wl)
	}
	return Change{ID: s.ID, Kind: ChangeConfigured, SurfaceKind: KindWindow, Resized: resized}
}
