// Package input maps keyboard events to viewer and gallery actions.
//
// Keys are matched by evdev keycode, which is layout independent; the
// compositor keymap is not parsed.
package input

// Linux evdev keycodes (linux/input-event-codes.h).
const (
	KeyEsc        uint32 = 1
	Key0          uint32 = 11
	KeyMinus      uint32 = 12
	KeyEqual      uint32 = 13
	KeyBackspace  uint32 = 14
	KeyQ          uint32 = 16
	KeyW          uint32 = 17
	KeyR          uint32 = 19
	KeyP          uint32 = 25
	KeyEnter      uint32 = 28
	KeyLeftCtrl   uint32 = 29
	KeyS          uint32 = 31
	KeyF          uint32 = 33
	KeyG          uint32 = 34
	KeyH          uint32 = 35
	KeyJ          uint32 = 36
	KeyK          uint32 = 37
	KeyL          uint32 = 38
	KeyLeftShift  uint32 = 42
	KeyN          uint32 = 49
	KeyRightShift uint32 = 54
	KeySpace      uint32 = 57
	KeyKPMinus    uint32 = 74
	KeyKPPlus     uint32 = 78
	KeyKPEnter    uint32 = 96
	KeyRightCtrl  uint32 = 97
	KeyUp         uint32 = 103
	KeyLeft       uint32 = 105
	KeyRight      uint32 = 106
	KeyDown       uint32 = 108
)

// Modifier bits of the default xkb keymap, as sent in wl_keyboard.modifiers.
const (
	modShift   uint32 = 1 << 0
	modControl uint32 = 1 << 2
)
