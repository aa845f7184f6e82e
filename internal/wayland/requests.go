package wayland

import (
	"github.com/yaslama/go-wayland/wayland/client"
	xdg "github.com/yaslama/go-wayland/wayland/stable/xdg-shell"

	"github.com/1broseidon/wlview/internal/wayland/layershell"
)

// Requests address objects by id. A request on an id the client does not
// know is dropped and logged; a failed write is reported by the next Flush.

func (c *Client) CreateSurface(compositor ObjectID) ObjectID {
	comp, ok := lookup[*client.Compositor](c, compositor)
	if !ok {
		return 0
	}
	s, err := comp.CreateSurface()
	if !c.check(err) {
		return 0
	}
	c.handleSurface(s)
	return c.track(s, IfaceSurface)
}

func (c *Client) SurfaceAttach(surface, buffer ObjectID, x, y int32) {
	s, ok := lookup[*client.Surface](c, surface)
	if !ok {
		return
	}
	var b *client.Buffer
	if buffer != 0 {
		if b, ok = lookup[*client.Buffer](c, buffer); !ok {
			return
		}
	}
	c.check(s.Attach(b, x, y))
}

func (c *Client) SurfaceDamageBuffer(surface ObjectID, x, y, w, h int32) {
	if s, ok := lookup[*client.Surface](c, surface); ok {
		c.check(s.DamageBuffer(x, y, w, h))
	}
}

// SurfaceFrame requests a frame callback for the next commit.
func (c *Client) SurfaceFrame(surface ObjectID) ObjectID {
	s, ok := lookup[*client.Surface](c, surface)
	if !ok {
		return 0
	}
	cb, err := s.Frame()
	if !c.check(err) {
		return 0
	}
	c.handleCallback(cb)
	return c.track(cb, IfaceCallback)
}

func (c *Client) SurfaceCommit(surface ObjectID) {
	if s, ok := lookup[*client.Surface](c, surface); ok {
		c.check(s.Commit())
	}
}

func (c *Client) SurfaceDestroy(surface ObjectID) {
	if s, ok := lookup[*client.Surface](c, surface); ok {
		c.check(s.Destroy())
		c.untrack(surface)
	}
}

// CreatePool shares fd with the compositor as a wl_shm_pool of size bytes.
// The caller keeps ownership of fd.
func (c *Client) CreatePool(shm ObjectID, fd int, size int32) ObjectID {
	s, ok := lookup[*client.Shm](c, shm)
	if !ok {
		return 0
	}
	p, err := s.CreatePool(fd, size)
	if !c.check(err) {
		return 0
	}
	return c.track(p, IfaceShmPool)
}

func (c *Client) PoolCreateBuffer(pool ObjectID, offset, width, height, stride int32, format uint32) ObjectID {
	p, ok := lookup[*client.ShmPool](c, pool)
	if !ok {
		return 0
	}
	b, err := p.CreateBuffer(offset, width, height, stride, format)
	if !c.check(err) {
		return 0
	}
	c.handleBuffer(b)
	return c.track(b, IfaceBuffer)
}

func (c *Client) PoolDestroy(pool ObjectID) {
	if p, ok := lookup[*client.ShmPool](c, pool); ok {
		c.check(p.Destroy())
		c.untrack(pool)
	}
}

func (c *Client) BufferDestroy(buffer ObjectID) {
	if b, ok := lookup[*client.Buffer](c, buffer); ok {
		c.check(b.Destroy())
		c.untrack(buffer)
	}
}

// GetKeyboard installs the keyboard's handlers before the request goes out,
// since the compositor sends the keymap right away.
func (c *Client) GetKeyboard(seat ObjectID) ObjectID {
	s, ok := lookup[*client.Seat](c, seat)
	if !ok {
		return 0
	}
	k := client.NewKeyboard(c.ctx)
	c.handleKeyboard(k)
	id := c.track(k, IfaceKeyboard)
	if !c.check(c.sendNewID(s, opSeatGetKeyboard, k)) {
		return 0
	}
	return id
}

func (c *Client) GetXdgSurface(wmBase, surface ObjectID) ObjectID {
	w, ok := lookup[*xdg.WmBase](c, wmBase)
	if !ok {
		return 0
	}
	s, ok := lookup[*client.Surface](c, surface)
	if !ok {
		return 0
	}
	x, err := w.GetXdgSurface(s)
	if !c.check(err) {
		return 0
	}
	c.handleXdgSurface(x)
	return c.track(x, IfaceXdgSurface)
}

func (c *Client) GetToplevel(xdgSurface ObjectID) ObjectID {
	x, ok := lookup[*xdg.Surface](c, xdgSurface)
	if !ok {
		return 0
	}
	t, err := x.GetToplevel()
	if !c.check(err) {
		return 0
	}
	c.handleToplevel(t)
	return c.track(t, IfaceXdgToplevel)
}

func (c *Client) XdgSurfaceAckConfigure(xdgSurface ObjectID, serial uint32) {
	if x, ok := lookup[*xdg.Surface](c, xdgSurface); ok {
		c.check(x.AckConfigure(serial))
	}
}

func (c *Client) XdgSurfaceDestroy(xdgSurface ObjectID) {
	if x, ok := lookup[*xdg.Surface](c, xdgSurface); ok {
		c.check(x.Destroy())
		c.untrack(xdgSurface)
	}
}

func (c *Client) ToplevelSetTitle(toplevel ObjectID, title string) {
	if t, ok := lookup[*xdg.Toplevel](c, toplevel); ok {
		c.check(t.SetTitle(title))
	}
}

func (c *Client) ToplevelSetAppID(toplevel ObjectID, appID string) {
	if t, ok := lookup[*xdg.Toplevel](c, toplevel); ok {
		c.check(t.SetAppId(appID))
	}
}

// ToplevelSetFullscreen lets the compositor pick the output.
func (c *Client) ToplevelSetFullscreen(toplevel ObjectID) {
	if t, ok := lookup[*xdg.Toplevel](c, toplevel); ok {
		c.check(t.SetFullscreen(nil))
	}
}

func (c *Client) ToplevelUnsetFullscreen(toplevel ObjectID) {
	if t, ok := lookup[*xdg.Toplevel](c, toplevel); ok {
		c.check(t.UnsetFullscreen())
	}
}

func (c *Client) ToplevelDestroy(toplevel ObjectID) {
	if t, ok := lookup[*xdg.Toplevel](c, toplevel); ok {
		c.check(t.Destroy())
		c.untrack(toplevel)
	}
}

// GetLayerSurface places surface on output. A zero output lets the
// compositor choose.
func (c *Client) GetLayerSurface(shell, surface, output ObjectID, layer layershell.Layer, namespace string) ObjectID {
	sh, ok := lookup[*layershell.Shell](c, shell)
	if !ok {
		return 0
	}
	s, ok := lookup[*client.Surface](c, surface)
	if !ok {
		return 0
	}
	var o *client.Output
	if output != 0 {
		if o, ok = lookup[*client.Output](c, output); !ok {
			return 0
		}
	}
	ls, err := sh.GetLayerSurface(s, o, layer, namespace)
	if !c.check(err) {
		return 0
	}
	c.handleLayerSurface(ls)
	return c.track(ls, IfaceLayerSurface)
}

func (c *Client) LayerSurfaceSetSize(ls ObjectID, width, height uint32) {
	if s, ok := lookup[*layershell.Surface](c, ls); ok {
		c.check(s.SetSize(width, height))
	}
}

func (c *Client) LayerSurfaceSetAnchor(ls ObjectID, anchor layershell.Anchor) {
	if s, ok := lookup[*layershell.Surface](c, ls); ok {
		c.check(s.SetAnchor(anchor))
	}
}

func (c *Client) LayerSurfaceSetExclusiveZone(ls ObjectID, zone int32) {
	if s, ok := lookup[*layershell.Surface](c, ls); ok {
		c.check(s.SetExclusiveZone(zone))
	}
}

func (c *Client) LayerSurfaceSetKeyboardInteractivity(ls ObjectID, mode layershell.KeyboardInteractivity) {
	if s, ok := lookup[*layershell.Surface](c, ls); ok {
		c.check(s.SetKeyboardInteractivity(mode))
	}
}

func (c *Client) LayerSurfaceAckConfigure(ls ObjectID, serial uint32) {
	if s, ok := lookup[*layershell.Surface](c, ls); ok {
		c.check(s.AckConfigure(serial))
	}
}

func (c *Client) LayerSurfaceDestroy(ls ObjectID) {
	if s, ok := lookup[*layershell.Surface](c, ls); ok {
		c.check(s.Destroy())
		c.untrack(ls)
	}
}
