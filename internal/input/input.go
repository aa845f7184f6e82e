package input

import "github.com/1broseidon/wlview/internal/wayland"

// Mode is the interaction mode the keys are interpreted in.
type Mode int

const (
	ModeViewer Mode = iota
	ModeGallery
)

func (m Mode) String() string {
	if m == ModeGallery {
		return "gallery"
	}
	return "viewer"
}

// Direction is a pan or selection direction.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Action is what a key asks the application to do.
type Action int

const (
	ActionNone Action = iota
	Quit
	// EscapeOrQuit leaves the gallery, resets zoom, or quits, in that order.
	EscapeOrQuit
	ToggleMode
	CycleSort

	NextImage
	PrevImage
	FirstImage
	LastImage
	ZoomIn
	ZoomOut
	ZoomReset
	ActualSize
	FitToWindow
	PanStart
	PanStop
	Fullscreen
	RotateCW
	RotateCCW

	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	GalleryFirst
	GalleryLast
)

// Command is an action with its direction, when it has one.
type Command struct {
	Action Action
	Dir    Direction
}

// Key is one key transition with the modifiers held at the time.
type Key struct {
	Code    uint32
	Pressed bool
	Shift   bool
	Ctrl    bool
}

// Keyboard tracks modifier state across wl_keyboard events.
type Keyboard struct {
	shift bool
	ctrl  bool
}

// Handle consumes a keyboard event. It returns a Key for key transitions.
func (k *Keyboard) Handle(ev wayland.Event) (Key, bool) {
	switch e := ev.(type) {
	case wayland.KeyboardModifiers:
		k.shift = e.Depressed&modShift != 0
		k.ctrl = e.Depressed&modControl != 0
	case wayland.KeyboardLeave:
		k.shift, k.ctrl = false, false
	case wayland.KeyboardKey:
		switch e.Key {
		case KeyLeftShift, KeyRightShift:
			k.shift = e.State == wayland.KeyStatePressed
		case KeyLeftCtrl, KeyRightCtrl:
			k.ctrl = e.State == wayland.KeyStatePressed
		}
		return Key{Code: e.Key, Pressed: e.State == wayland.KeyStatePressed, Shift: k.shift, Ctrl: k.ctrl}, true
	}
	return Key{}, false
}

// Map translates a key transition into a command for mode. Releases only
// matter for stopping a pan in the viewer.
func Map(k Key, mode Mode) (Command, bool) {
	if !k.Pressed {
		if mode != ModeViewer {
			return Command{}, false
		}
		if dir, ok := direction(k.Code); ok {
			return Command{Action: PanStop, Dir: dir}, true
		}
		return Command{}, false
	}

	switch k.Code {
	case KeyQ:
		return Command{Action: Quit}, true
	case KeyEsc:
		return Command{Action: EscapeOrQuit}, true
	case KeyEnter, KeyKPEnter:
		return Command{Action: ToggleMode}, true
	case KeyS:
		return Command{Action: CycleSort}, true
	}

	if mode == ModeGallery {
		return mapGallery(k)
	}
	return mapViewer(k)
}

func mapViewer(k Key) (Command, bool) {
	if k.Ctrl && k.Code == Key0 {
		return Command{Action: ActualSize}, true
	}
	if k.Shift && k.Code == KeyW {
		return Command{Action: FitToWindow}, true
	}
	if dir, ok := direction(k.Code); ok {
		return Command{Action: PanStart, Dir: dir}, true
	}

	var a Action
	switch k.Code {
	case KeyN, KeySpace:
		a = NextImage
	case KeyP, KeyBackspace:
		a = PrevImage
	case KeyG:
		a = FirstImage
		if k.Shift {
			a = LastImage
		}
	case KeyEqual, KeyKPPlus:
		a = ZoomIn
	case KeyMinus, KeyKPMinus:
		a = ZoomOut
	case Key0:
		a = ZoomReset
	case KeyF:
		a = Fullscreen
	case KeyR:
		a = RotateCW
		if k.Shift {
			a = RotateCCW
		}
	default:
		return Command{}, false
	}
	return Command{Action: a}, true
}

func mapGallery(k Key) (Command, bool) {
	if dir, ok := direction(k.Code); ok {
		return Command{Action: [...]Action{MoveLeft, MoveRight, MoveUp, MoveDown}[dir], Dir: dir}, true
	}
	if k.Code == KeyG {
		if k.Shift {
			return Command{Action: GalleryLast}, true
		}
		return Command{Action: GalleryFirst}, true
	}
	return Command{}, false
}

// direction maps hjkl and the arrow keys.
func direction(code uint32) (Direction, bool) {
	switch code {
	case KeyH, KeyLeft:
		return Left, true
	case KeyL, KeyRight:
		return Right, true
	case KeyK, KeyUp:
		return Up, true
	case KeyJ, KeyDown:
		return Down, true
	}
	return 0, false
}
