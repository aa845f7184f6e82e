package waylandtest

// Request opcodes, for inspecting what the client sent.
const (
	OpDisplaySync        = 0
	OpDisplayGetRegistry = 1

	OpRegistryBind = 0

	OpSurfaceAttach       = 1
	OpSurfaceFrame        = 3
	OpSurfaceCommit       = 6
	OpSurfaceDamageBuffer = 9

	OpShmCreatePool = 0

	OpShmPoolCreateBuffer = 0

	OpSeatGetKeyboard = 1

	OpWmBaseGetXdgSurface = 2
	OpWmBasePong          = 3

	OpXdgSurfaceGetToplevel  = 1
	OpXdgSurfaceAckConfigure = 4

	OpToplevelSetTitle      = 2
	OpToplevelSetFullscreen = 11

	OpLayerShellGetLayerSurface = 0

	OpLayerSurfaceAckConfigure = 6
)

// Event opcodes, for synthesizing compositor traffic.
const (
	EvDisplayError    = 0
	EvDisplayDeleteID = 1

	EvRegistryGlobal       = 0
	EvRegistryGlobalRemove = 1

	EvCallbackDone = 0

	EvShmFormat = 0

	EvBufferRelease = 0

	EvSeatCapabilities = 0

	EvKeyboardKey = 3

	EvOutputMode = 1
	EvOutputDone = 2

	EvWmBasePing = 0

	EvXdgSurfaceConfigure = 0

	EvToplevelConfigure = 0
	EvToplevelClose     = 1

	EvLayerSurfaceConfigure = 0
	EvLayerSurfaceClosed    = 1
)

// DisplayID is the object id of wl_display.
const DisplayID = 1
