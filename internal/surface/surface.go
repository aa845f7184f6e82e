package surface

import (
	"github.com/1broseidon/wlview/internal/output"
	"github.com/1broseidon/wlview/internal/wayland"
)

// ID is a controller-assigned surface handle.
type ID int

// Kind selects the presentation strategy of a surface.
type Kind int

const (
	// KindWindow is a resizable xdg toplevel.
	KindWindow Kind = iota
	// KindBackground is a layer-shell surface covering one output.
	KindBackground
)

func (k Kind) String() string {
	if k == KindBackground {
		return "background"
	}
	return "window"
}

// State is the configure lifecycle of a surface.
type State int

const (
	StateCreated State = iota
	StateConfigurePending
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfigurePending:
		return "configure-pending"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Surface is one compositor surface and its role objects.
type Surface struct {
	ID         ID
	Kind       Kind
	State      State
	Width      int
	Height     int
	Fullscreen bool
	// Output is the monitor a background surface covers.
	Output output.Output

	wl       wayland.ObjectID
	role     wayland.ObjectID
	toplevel wayland.ObjectID
	frame    wayland.ObjectID

	pendingW          int
	pendingH          int
	pendingFullscreen bool

	dirty     bool
	presented int
}

// Object returns the wl_surface id, which also keys its buffers.
func (s Surface) Object() wayland.ObjectID {
	return s.wl
}

// Presented counts the frames committed so far.
func (s Surface) Presented() int {
	return s.presented
}

// ChangeKind classifies the outcome of an event.
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	// ChangeConfigured: the surface was acked and may need a frame.
	ChangeConfigured
	ChangeClosed
	ChangeReleased
	ChangeFrame
)

// Change describes what an event did to a surface.
type Change struct {
	ID          ID
	Kind        ChangeKind
	SurfaceKind Kind
	// Resized is set on ChangeConfigured when the dimensions changed or the
	// surface was configured for the first time.
	Resized bool
	// Current is set on ChangeReleased when the buffer belongs to the live
	// pair of the surface.
	Current bool
}
