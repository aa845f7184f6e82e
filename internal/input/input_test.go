package input

import (
	"testing"

	"github.com/1broseidon/wlview/internal/wayland"
)

func press(code uint32) Key   { return Key{Code: code, Pressed: true} }
func release(code uint32) Key { return Key{Code: code} }

func mustMap(t *testing.T, k Key, mode Mode) Command {
	t.Helper()
	cmd, ok := Map(k, mode)
	if !ok {
		t.Fatalf("Map(%+v, %v) is unmapped", k, mode)
	}
	return cmd
}

func TestMap_GlobalKeys(t *testing.T) {
	want := map[uint32]Action{
		KeyQ:     Quit,
		KeyEsc:   EscapeOrQuit,
		KeyEnter: ToggleMode,
		KeyS:     CycleSort,
	}
	for _, mode := range []Mode{ModeViewer, ModeGallery} {
		for code, action := range want {
			if got := mustMap(t, press(code), mode).Action; got != action {
				t.Fatalf("%v: key %d = %v; want %v", mode, code, got, action)
			}
		}
	}
}

func TestMap_Viewer(t *testing.T) {
	cases := []struct {
		key  Key
		want Command
	}{
		{press(KeyN), Command{Action: NextImage}},
		{press(KeySpace), Command{Action: NextImage}},
		{press(KeyBackspace), Command{Action: PrevImage}},
		{press(KeyG), Command{Action: FirstImage}},
		{Key{Code: KeyG, Pressed: true, Shift: true}, Command{Action: LastImage}},
		{press(KeyEqual), Command{Action: ZoomIn}},
		{Key{Code: KeyEqual, Pressed: true, Shift: true}, Command{Action: ZoomIn}},
		{press(KeyMinus), Command{Action: ZoomOut}},
		{press(Key0), Command{Action: ZoomReset}},
		{Key{Code: Key0, Pressed: true, Ctrl: true}, Command{Action: ActualSize}},
		{Key{Code: KeyW, Pressed: true, Shift: true}, Command{Action: FitToWindow}},
		{press(KeyF), Command{Action: Fullscreen}},
		{press(KeyR), Command{Action: RotateCW}},
		{Key{Code: KeyR, Pressed: true, Shift: true}, Command{Action: RotateCCW}},
		{press(KeyH), Command{Action: PanStart, Dir: Left}},
		{press(KeyDown), Command{Action: PanStart, Dir: Down}},
		{release(KeyL), Command{Action: PanStop, Dir: Right}},
		{release(KeyUp), Command{Action: PanStop, Dir: Up}},
	}
	for _, tc := range cases {
		if got := mustMap(t, tc.key, ModeViewer); got != tc.want {
			t.Fatalf("Map(%+v) = %+v; want %+v", tc.key, got, tc.want)
		}
	}
}

func TestMap_Gallery(t *testing.T) {
	if got := mustMap(t, press(KeyJ), ModeGallery); got != (Command{Action: MoveDown, Dir: Down}) {
		t.Fatalf("j = %+v; want MoveDown", got)
	}
	if got := mustMap(t, press(KeyLeft), ModeGallery).Action; got != MoveLeft {
		t.Fatalf("left = %v; want MoveLeft", got)
	}
	if got := mustMap(t, Key{Code: KeyG, Pressed: true, Shift: true}, ModeGallery).Action; got != GalleryLast {
		t.Fatalf("G = %v; want GalleryLast", got)
	}

	for _, k := range []Key{release(KeyJ), press(KeyN)} {
		if cmd, ok := Map(k, ModeGallery); ok {
			t.Fatalf("Map(%+v) = %+v; want unmapped in the gallery", k, cmd)
		}
	}
}

func TestMap_Unmapped(t *testing.T) {
	for _, k := range []Key{press(44), release(KeyN)} {
		if cmd, ok := Map(k, ModeViewer); ok {
			t.Fatalf("Map(%+v) = %+v; want unmapped", k, cmd)
		}
	}
}

func TestKeyboard_TracksModifiers(t *testing.T) {
	var kb Keyboard

	if _, ok := kb.Handle(wayland.KeyboardModifiers{Depressed: modShift}); ok {
		t.Fatal("modifiers alone produced a key")
	}

	key, ok := kb.Handle(wayland.KeyboardKey{Key: KeyG, State: wayland.KeyStatePressed})
	if !ok || key != (Key{Code: KeyG, Pressed: true, Shift: true}) {
		t.Fatalf("Handle(G) = %+v, %v; want shifted press", key, ok)
	}

	kb.Handle(wayland.KeyboardLeave{})
	if key, _ = kb.Handle(wayland.KeyboardKey{Key: KeyG}); key != (Key{Code: KeyG}) {
		t.Fatalf("after leave Handle(G) = %+v; want no modifiers", key)
	}

	kb.Handle(wayland.KeyboardKey{Key: KeyLeftCtrl, State: wayland.KeyStatePressed})
	key, _ = kb.Handle(wayland.KeyboardKey{Key: Key0, State: wayland.KeyStatePressed})
	if !key.Ctrl {
		t.Fatalf("Handle(0) = %+v; want ctrl held", key)
	}
	if got := mustMap(t, key, ModeViewer).Action; got != ActualSize {
		t.Fatalf("ctrl+0 = %v; want ActualSize", got)
	}
}
