// Package layershell is the client side of wlr-layer-shell-unstable-v1,
// written against the go-wayland client runtime the same way its generated
// protocol packages are.
package layershell

import (
	"github.com/yaslama/go-wayland/wayland/client"
)

const (
	ShellInterfaceName   = "zwlr_layer_shell_v1"
	SurfaceInterfaceName = "zwlr_layer_surface_v1"
)

// Layer is the stacking layer of a surface.
type Layer uint32

const (
	LayerBackground Layer = 0
	LayerBottom     Layer = 1
	LayerTop        Layer = 2
	LayerOverlay    Layer = 3
)

// Anchor is a bitmask of output edges.
type Anchor uint32

const (
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8
	AnchorAll           = AnchorTop | AnchorBottom | AnchorLeft | AnchorRight
)

// KeyboardInteractivity controls whether the surface takes keyboard focus.
type KeyboardInteractivity uint32

const (
	KeyboardInteractivityNone      KeyboardInteractivity = 0
	KeyboardInteractivityExclusive KeyboardInteractivity = 1
	KeyboardInteractivityOnDemand  KeyboardInteractivity = 2
)

// Request opcodes.
const (
	opShellGetLayerSurface = 0
	opShellDestroy         = 1

	opSurfaceSetSize                  = 0
	opSurfaceSetAnchor                = 1
	opSurfaceSetExclusiveZone         = 2
	opSurfaceSetMargin                = 3
	opSurfaceSetKeyboardInteractivity = 4
	opSurfaceAckConfigure             = 6
	opSurfaceDestroy                  = 7
)

// Event opcodes.
const (
	EvSurfaceConfigure = 0
	EvSurfaceClosed    = 1
)

// Shell is the zwlr_layer_shell_v1 global.
type Shell struct {
	client.BaseProxy
}

// NewShell registers a shell proxy on ctx, ready to be bound.
func NewShell(ctx *client.Context) *Shell {
	s := &Shell{}
	ctx.Register(s)
	return s
}

// GetLayerSurface assigns the layer surface role to surface. A nil output
// lets the compositor choose.
func (s *Shell) GetLayerSurface(surface *client.Surface, output *client.Output, layer Layer, namespace string) (*Surface, error) {
	id := NewSurface(s.Context())
	r := newRequest(s, opShellGetLayerSurface)
	r.uint(id.ID())
	r.object(surface)
	if output == nil {
		r.uint(0)
	} else {
		r.object(output)
	}
	r.uint(uint32(layer))
	r.string(namespace)
	return id, r.send(s.Context())
}

// Destroy releases the shell. Existing layer surfaces stay valid.
func (s *Shell) Destroy() error {
	defer s.Context().Unregister(s)
	return newRequest(s, opShellDestroy).send(s.Context())
}

// ConfigureEvent asks the client to resize. A zero dimension leaves it to
// the client.
type ConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}

// ClosedEvent means the compositor is done with the surface, for example
// because its output went away.
type ClosedEvent struct{}

// Surface is a zwlr_layer_surface_v1.
type Surface struct {
	client.BaseProxy
	configureHandler func(ConfigureEvent)
	closedHandler    func(ClosedEvent)
}

// NewSurface registers a layer surface proxy on ctx.
func NewSurface(ctx *client.Context) *Surface {
	s := &Surface{}
	ctx.Register(s)
	return s
}

func (s *Surface) SetSize(width, height uint32) error {
	r := newRequest(s, opSurfaceSetSize)
	r.uint(width)
	r.uint(height)
	return r.send(s.Context())
}

func (s *Surface) SetAnchor(anchor Anchor) error {
	r := newRequest(s, opSurfaceSetAnchor)
	r.uint(uint32(anchor))
	return r.send(s.Context())
}

// SetExclusiveZone of -1 extends the surface under other layer surfaces'
// exclusive zones.
func (s *Surface) SetExclusiveZone(zone int32) error {
	r := newRequest(s, opSurfaceSetExclusiveZone)
	r.uint(uint32(zone))
	return r.send(s.Context())
}

func (s *Surface) SetMargin(top, right, bottom, left int32) error {
	r := newRequest(s, opSurfaceSetMargin)
	r.uint(uint32(top))
	r.uint(uint32(right))
	r.uint(uint32(bottom))
	r.uint(uint32(left))
	return r.send(s.Context())
}

func (s *Surface) SetKeyboardInteractivity(mode KeyboardInteractivity) error {
	r := newRequest(s, opSurfaceSetKeyboardInteractivity)
	r.uint(uint32(mode))
	return r.send(s.Context())
}

func (s *Surface) AckConfigure(serial uint32) error {
	r := newRequest(s, opSurfaceAckConfigure)
	r.uint(serial)
	return r.send(s.Context())
}

func (s *Surface) Destroy() error {
	defer s.Context().Unregister(s)
	return newRequest(s, opSurfaceDestroy).send(s.Context())
}

func (s *Surface) SetConfigureHandler(f func(ConfigureEvent)) {
	s.configureHandler = f
}

func (s *Surface) SetClosedHandler(f func(ClosedEvent)) {
	s.closedHandler = f
}

// Dispatch decodes one event for s. The client context calls it.
func (s *Surface) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case EvSurfaceConfigure:
		if s.configureHandler == nil || len(data) < 12 {
			return
		}
		s.configureHandler(ConfigureEvent{
			Serial: client.Uint32(data[0:4]),
			Width:  client.Uint32(data[4:8]),
			Height: client.Uint32(data[8:12]),
		})
	case EvSurfaceClosed:
		if s.closedHandler == nil {
			return
		}
		s.closedHandler(ClosedEvent{})
	}
}
