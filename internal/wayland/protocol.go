package wayland

// ObjectID identifies a protocol object. Zero is the null object.
type ObjectID uint32

// Interface identifies the protocol interface of an object. The client keeps
// one per live object id so errors can name it.
type Interface uint8

const (
	IfaceUnknown Interface = iota
	IfaceDisplay
	IfaceRegistry
	IfaceCallback
	IfaceCompositor
	IfaceSurface
	IfaceShm
	IfaceShmPool
	IfaceBuffer
	IfaceSeat
	IfaceKeyboard
	IfaceOutput
	IfaceWmBase
	IfaceXdgSurface
	IfaceXdgToplevel
	IfaceLayerShell
	IfaceLayerSurface
)

var interfaceNames = [...]string{
	IfaceUnknown:      "unknown",
	IfaceDisplay:      "wl_display",
	IfaceRegistry:     "wl_registry",
	IfaceCallback:     "wl_callback",
	IfaceCompositor:   "wl_compositor",
	IfaceSurface:      "wl_surface",
	IfaceShm:          "wl_shm",
	IfaceShmPool:      "wl_shm_pool",
	IfaceBuffer:       "wl_buffer",
	IfaceSeat:         "wl_seat",
	IfaceKeyboard:     "wl_keyboard",
	IfaceOutput:       "wl_output",
	IfaceWmBase:       "xdg_wm_base",
	IfaceXdgSurface:   "xdg_surface",
	IfaceXdgToplevel:  "xdg_toplevel",
	IfaceLayerShell:   "zwlr_layer_shell_v1",
	IfaceLayerSurface: "zwlr_layer_surface_v1",
}

func (i Interface) String() string {
	if int(i) < len(interfaceNames) {
		return interfaceNames[i]
	}
	return "unknown"
}

// Requests the client encodes itself so that the new object's handlers are
// installed before the request is written.
const (
	opDisplaySync     = 0
	opSeatGetKeyboard = 1
)

// Enumerations.
const (
	ShmFormatARGB8888 uint32 = 0
	ShmFormatXRGB8888 uint32 = 1

	SeatCapabilityPointer  uint32 = 1
	SeatCapabilityKeyboard uint32 = 2

	KeyStateReleased uint32 = 0
	KeyStatePressed  uint32 = 1

	OutputModeCurrent   uint32 = 0x1
	OutputModePreferred uint32 = 0x2

	ToplevelStateFullscreen uint32 = 2
)

// Highest versions this client speaks.
const (
	maxCompositorVersion = 4
	maxShmVersion        = 1
	maxSeatVersion       = 4
	maxOutputVersion     = 2
	maxWmBaseVersion     = 1
	maxLayerShellVersion = 1
)
