package wayland

import (
	"github.com/yaslama/go-wayland/wayland/client"
	xdg "github.com/yaslama/go-wayland/wayland/stable/xdg-shell"
	"golang.org/x/sys/unix"

	"github.com/1broseidon/wlview/internal/wayland/layershell"
)

// The handlers below run inside Roundtrip or Wait on the loop goroutine.
// They translate library events into Event values and queue them.

func base(p client.Proxy) eventBase {
	return eventBase{Sender: ObjectID(p.ID())}
}

func surfaceID(s *client.Surface) ObjectID {
	if s == nil {
		return 0
	}
	return ObjectID(s.ID())
}

func outputID(o *client.Output) ObjectID {
	if o == nil {
		return 0
	}
	return ObjectID(o.ID())
}

// words splits a wire array into native-endian uint32 values.
func words(b []byte) []uint32 {
	out := make([]uint32, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		out = append(out, client.Uint32(b[i:i+4]))
	}
	return out
}

func (c *Client) handleRegistry(r *client.Registry) {
	r.SetGlobalHandler(func(e client.RegistryGlobalEvent) {
		c.emit(Global{eventBase: base(r), Name: e.Name, Interface: e.Interface, Version: e.Version})
	})
	r.SetGlobalRemoveHandler(func(e client.RegistryGlobalRemoveEvent) {
		c.emit(GlobalRemove{eventBase: base(r), Name: e.Name})
	})
}

func (c *Client) handleShm(s *client.Shm) {
	s.SetFormatHandler(func(e client.ShmFormatEvent) {
		c.emit(ShmFormat{eventBase: base(s), Format: e.Format})
	})
}

func (c *Client) handleBuffer(b *client.Buffer) {
	b.SetReleaseHandler(func(client.BufferReleaseEvent) {
		c.emit(BufferRelease{eventBase: base(b)})
	})
}

func (c *Client) handleCallback(cb *client.Callback) {
	cb.SetDoneHandler(func(e client.CallbackDoneEvent) {
		c.emit(CallbackDone{eventBase: base(cb), Data: e.CallbackData})
	})
}

func (c *Client) handleSurface(s *client.Surface) {
	s.SetEnterHandler(func(e client.SurfaceEnterEvent) {
		c.emit(SurfaceEnter{eventBase: base(s), Output: outputID(e.Output)})
	})
	s.SetLeaveHandler(func(e client.SurfaceLeaveEvent) {
		c.emit(SurfaceLeave{eventBase: base(s), Output: outputID(e.Output)})
	})
}

func (c *Client) handleSeat(s *client.Seat) {
	s.SetCapabilitiesHandler(func(e client.SeatCapabilitiesEvent) {
		c.emit(SeatCapabilities{eventBase: base(s), Capabilities: e.Capabilities})
	})
	s.SetNameHandler(func(e client.SeatNameEvent) {
		c.emit(SeatName{eventBase: base(s), Name: e.Name})
	})
}

func (c *Client) handleKeyboard(k *client.Keyboard) {
	k.SetKeymapHandler(func(e client.KeyboardKeymapEvent) {
		if e.Fd >= 0 {
			_ = unix.Close(e.Fd)
		}
		c.emit(KeyboardKeymap{eventBase: base(k), Format: e.Format, Size: e.Size})
	})
	k.SetEnterHandler(func(e client.KeyboardEnterEvent) {
		c.emit(KeyboardEnter{eventBase: base(k), Serial: e.Serial, Surface: surfaceID(e.Surface), Keys: words(e.Keys)})
	})
	k.SetLeaveHandler(func(e client.KeyboardLeaveEvent) {
		c.emit(KeyboardLeave{eventBase: base(k), Serial: e.Serial, Surface: surfaceID(e.Surface)})
	})
	k.SetKeyHandler(func(e client.KeyboardKeyEvent) {
		c.emit(KeyboardKey{eventBase: base(k), Serial: e.Serial, Time: e.Time, Key: e.Key, State: e.State})
	})
	k.SetModifiersHandler(func(e client.KeyboardModifiersEvent) {
		c.emit(KeyboardModifiers{
			eventBase: base(k),
			Serial:    e.Serial,
			Depressed: e.ModsDepressed,
			Latched:   e.ModsLatched,
			Locked:    e.ModsLocked,
			Group:     e.Group,
		})
	})
	k.SetRepeatInfoHandler(func(e client.KeyboardRepeatInfoEvent) {
		c.emit(KeyboardRepeatInfo{eventBase: base(k), Rate: e.Rate, Delay: e.Delay})
	})
}

func (c *Client) handleOutput(o *client.Output) {
	o.SetGeometryHandler(func(e client.OutputGeometryEvent) {
		c.emit(OutputGeometry{
			eventBase:      base(o),
			X:              e.X,
			Y:              e.Y,
			PhysicalWidth:  e.PhysicalWidth,
			PhysicalHeight: e.PhysicalHeight,
			Subpixel:       e.Subpixel,
			Make:           e.Make,
			Model:          e.Model,
			Transform:      e.Transform,
		})
	})
	o.SetModeHandler(func(e client.OutputModeEvent) {
		c.emit(OutputMode{eventBase: base(o), Flags: e.Flags, Width: e.Width, Height: e.Height, Refresh: e.Refresh})
	})
	o.SetDoneHandler(func(client.OutputDoneEvent) {
		c.emit(OutputDone{eventBase: base(o)})
	})
	o.SetScaleHandler(func(e client.OutputScaleEvent) {
		c.emit(OutputScale{eventBase: base(o), Factor: e.Factor})
	})
}

// handleWmBase answers pings directly so a busy loop never gets the window
// marked unresponsive.
func (c *Client) handleWmBase(w *xdg.WmBase) {
	w.SetPingHandler(func(e xdg.WmBasePingEvent) {
		c.check(w.Pong(e.Serial))
	})
}

func (c *Client) handleXdgSurface(s *xdg.Surface) {
	s.SetConfigureHandler(func(e xdg.SurfaceConfigureEvent) {
		c.emit(XdgSurfaceConfigure{eventBase: base(s), Serial: e.Serial})
	})
}

func (c *Client) handleToplevel(t *xdg.Toplevel) {
	t.SetConfigureHandler(func(e xdg.ToplevelConfigureEvent) {
		c.emit(ToplevelConfigure{eventBase: base(t), Width: e.Width, Height: e.Height, States: words(e.States)})
	})
	t.SetCloseHandler(func(xdg.ToplevelCloseEvent) {
		c.emit(ToplevelClose{eventBase: base(t)})
	})
}

func (c *Client) handleLayerSurface(s *layershell.Surface) {
	s.SetConfigureHandler(func(e layershell.ConfigureEvent) {
		c.emit(LayerSurfaceConfigure{eventBase: base(s), Serial: e.Serial, Width: e.Width, Height: e.Height})
	})
	s.SetClosedHandler(func(layershell.ClosedEvent) {
		c.emit(LayerSurfaceClosed{eventBase: base(s)})
	})
}
