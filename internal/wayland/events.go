package wayland

// Event is one compositor event. The set of implementations is
// closed; handlers switch on the concrete type.
type Event interface {
	Source() ObjectID
	event()
}

type eventBase struct {
	Sender ObjectID
}

func (e eventBase) Source() ObjectID { return e.Sender }
func (eventBase) event()             {}

type (
	Global struct {
		eventBase
		Name      uint32
		Interface string
		Version   uint32
	}
	GlobalRemove struct {
		eventBase
		Name uint32
	}
	CallbackDone struct {
		eventBase
		Data uint32
	}
	ShmFormat struct {
		eventBase
		Format uint32
	}
	BufferRelease struct {
		eventBase
	}
	SurfaceEnter struct {
		eventBase
		Output ObjectID
	}
	SurfaceLeave struct {
		eventBase
		Output ObjectID
	}
	SeatCapabilities struct {
		eventBase
		Capabilities uint32
	}
	SeatName struct {
		eventBase
		Name string
	}
	// KeyboardKeymap announces a keymap. Keys are mapped from evdev codes,
	// so the descriptor is closed on arrival and only the format is kept.
	KeyboardKeymap struct {
		eventBase
		Format uint32
		Size   uint32
	}
	KeyboardEnter struct {
		eventBase
		Serial  uint32
		Surface ObjectID
		Keys    []uint32
	}
	KeyboardLeave struct {
		eventBase
		Serial  uint32
		Surface ObjectID
	}
	KeyboardKey struct {
		eventBase
		Serial uint32
		Time   uint32
		Key    uint32
		State  uint32
	}
	KeyboardModifiers struct {
		eventBase
		Serial    uint32
		Depressed uint32
		Latched   uint32
		Locked    uint32
		Group     uint32
	}
	KeyboardRepeatInfo struct {
		eventBase
		Rate  int32
		Delay int32
	}
	OutputGeometry struct {
		eventBase
		X, Y           int32
		PhysicalWidth  int32
		PhysicalHeight int32
		Subpixel       int32
		Make, Model    string
		Transform      int32
	}
	OutputMode struct {
		eventBase
		Flags   uint32
		Width   int32
		Height  int32
		Refresh int32
	}
	OutputDone struct {
		eventBase
	}
	OutputScale struct {
		eventBase
		Factor int32
	}
	WmBasePing struct {
		eventBase
		Serial uint32
	}
	XdgSurfaceConfigure struct {
		eventBase
		Serial uint32
	}
	ToplevelConfigure struct {
		eventBase
		Width  int32
		Height int32
		States []uint32
	}
	ToplevelClose struct {
		eventBase
	}
	LayerSurfaceConfigure struct {
		eventBase
		Serial uint32
		Width  uint32
		Height uint32
	}
	LayerSurfaceClosed struct {
		eventBase
	}
)

// Fullscreen reports whether the configure carries the fullscreen state.
func (e ToplevelConfigure) Fullscreen() bool {
	for _, s := range e.States {
		if s == ToplevelStateFullscreen {
			return true
		}
	}
	return false
}
