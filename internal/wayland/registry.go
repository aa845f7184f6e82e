package wayland

import (
	"fmt"

	"github.com/yaslama/go-wayland/wayland/client"
	xdg "github.com/yaslama/go-wayland/wayland/stable/xdg-shell"

	"github.com/1broseidon/wlview/internal/wayland/layershell"
)

// MissingGlobalError reports a required global the compositor does not offer.
type MissingGlobalError struct {
	Interface string
	Hint      string
}

func (e *MissingGlobalError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("compositor does not support %s (%s)", e.Interface, e.Hint)
	}
	return fmt.Sprintf("compositor does not support %s", e.Interface)
}

// Wants selects which optional globals to bind.
type Wants struct {
	// Window binds xdg_wm_base and wl_seat for an interactive toplevel.
	Window bool
	// Background binds zwlr_layer_shell_v1 and every wl_output.
	Background bool
}

// BoundOutput is a wl_output bound at startup.
type BoundOutput struct {
	Name   uint32
	Object ObjectID
}

// Globals is the capability set bound at startup. It does not change
// afterwards.
type Globals struct {
	Registry   ObjectID
	Compositor ObjectID
	Shm        ObjectID
	Seat       ObjectID
	WmBase     ObjectID
	LayerShell ObjectID
	Outputs    []BoundOutput
}

// BindGlobals lists the registry, binds what w asks for, and performs a second
// roundtrip so that the initial events of bound objects (output modes, seat
// capabilities) are queued before it returns.
func (c *Client) BindGlobals(w Wants) (*Globals, error) {
	reg, err := c.display.GetRegistry()
	if err != nil {
		return nil, fmt.Errorf("get registry: %w", err)
	}
	c.handleRegistry(reg)
	g := &Globals{Registry: c.track(reg, IfaceRegistry)}
	if err := c.Roundtrip(); err != nil {
		return nil, fmt.Errorf("registry roundtrip: %w", err)
	}

	queued := c.queue
	c.queue = nil

	var rest []Event
	for _, ev := range queued {
		switch e := ev.(type) {
		case Global:
			c.bindGlobal(reg, g, w, e)
		case GlobalRemove:
			g.removeOutput(e.Name)
		default:
			rest = append(rest, ev)
		}
	}
	c.queue = append(rest, c.queue...)
	if c.err != nil {
		return nil, c.err
	}

	if g.Compositor == 0 {
		return nil, &MissingGlobalError{Interface: IfaceCompositor.String()}
	}
	if g.Shm == 0 {
		return nil, &MissingGlobalError{Interface: IfaceShm.String()}
	}
	if w.Window && g.WmBase == 0 {
		return nil, &MissingGlobalError{Interface: IfaceWmBase.String()}
	}
	if w.Background && g.LayerShell == 0 {
		return nil, &MissingGlobalError{
			Interface: IfaceLayerShell.String(),
			Hint:      "wallpaper mode needs a wlroots-based compositor such as sway, river or Hyprland",
		}
	}

	if err := c.Roundtrip(); err != nil {
		return nil, fmt.Errorf("initial state roundtrip: %w", err)
	}
	c.log.Debug("globals bound", "outputs", len(g.Outputs), "seat", g.Seat != 0)
	return g, nil
}

func (c *Client) bindGlobal(reg *client.Registry, g *Globals, w Wants, e Global) {
	bind := func(p client.Proxy, kind Interface, limit uint32) ObjectID {
		version := min(e.Version, limit)
		if !c.check(reg.Bind(e.Name, e.Interface, version, p)) {
			return 0
		}
		return c.track(p, kind)
	}

	switch e.Interface {
	case client.CompositorInterfaceName:
		if e.Version < 4 {
			c.log.Warn("wl_compositor is older than version 4", "version", e.Version)
			return
		}
		g.Compositor = bind(client.NewCompositor(c.ctx), IfaceCompositor, maxCompositorVersion)
	case client.ShmInterfaceName:
		shm := client.NewShm(c.ctx)
		c.handleShm(shm)
		g.Shm = bind(shm, IfaceShm, maxShmVersion)
	case client.SeatInterfaceName:
		if w.Window && g.Seat == 0 {
			seat := client.NewSeat(c.ctx)
			c.handleSeat(seat)
			g.Seat = bind(seat, IfaceSeat, maxSeatVersion)
		}
	case xdg.WmBaseInterfaceName:
		if w.Window {
			wm := xdg.NewWmBase(c.ctx)
			c.handleWmBase(wm)
			g.WmBase = bind(wm, IfaceWmBase, maxWmBaseVersion)
		}
	case layershell.ShellInterfaceName:
		if w.Background {
			g.LayerShell = bind(layershell.NewShell(c.ctx), IfaceLayerShell, maxLayerShellVersion)
		}
	case client.OutputInterfaceName:
		if w.Background {
			out := client.NewOutput(c.ctx)
			c.handleOutput(out)
			if id := bind(out, IfaceOutput, maxOutputVersion); id != 0 {
				g.Outputs = append(g.Outputs, BoundOutput{Name: e.Name, Object: id})
			}
		}
	}
}

func (g *Globals) removeOutput(name uint32) {
	for i, o := range g.Outputs {
		if o.Name == name {
			g.Outputs = append(g.Outputs[:i], g.Outputs[i+1:]...)
			return
		}
	}
}
