package surface

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/wlview/internal/output"
	"github.com/1broseidon/wlview/internal/shm"
	"github.com/1broseidon/wlview/internal/wayland"
	"github.com/1broseidon/wlview/internal/wayland/layershell"
	"github.com/1broseidon/wlview/internal/wayland/waylandtest"
)

// heapRegion keeps pixels on the heap and hands the compositor /dev/null,
// which is enough for a compositor that never reads the pool.
type heapRegion struct {
	data []byte
	f    *os.File
}

func (r *heapRegion) Bytes() []byte { return r.data }
func (r *heapRegion) Fd() int       { return int(r.f.Fd()) }
func (r *heapRegion) Close() error  { return r.f.Close() }

type heapAlloc struct{}

func (heapAlloc) Allocate(size int) (shm.Region, error) {
	f, err := os.Open(os.DevNull)
	if err != nil {
		return nil, err
	}
	return &heapRegion{data: make([]byte, size), f: f}, nil
}

type harness struct {
	comp    *waylandtest.Compositor
	client  *wayland.Client
	globals *wayland.Globals
	outputs *output.Tracker
	pool    *shm.Pool
	ctl     *Controller
}

func newHarness(t *testing.T, wants wayland.Wants) *harness {
	t.Helper()
	comp := waylandtest.New(t, waylandtest.DefaultGlobals()...)
	comp.SetMode(6, waylandtest.Mode{Width: 1920, Height: 1080})
	comp.SetMode(7, waylandtest.Mode{Width: 2560, Height: 1440})
	client := comp.Client(t)
	g, err := client.BindGlobals(wants)
	require.NoError(t, err)

	tracker := output.NewTracker(nil)
	for _, o := range g.Outputs {
		tracker.Add(o.Name, o.Object)
	}
	pool := shm.NewPool(client, g.Shm, heapAlloc{}, nil)
	ctl := NewController(client, pool, Handles{Compositor: g.Compositor, WmBase: g.WmBase, LayerShell: g.LayerShell}, tracker, Options{})
	h := &harness{comp: comp, client: client, globals: g, outputs: tracker, pool: pool, ctl: ctl}
	h.pump(t)
	tracker.Freeze()
	return h
}

// sync waits until the compositor has seen every request sent so far.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	require.NoError(t, h.client.Flush())
	require.NoError(t, h.client.Roundtrip())
}

// pump syncs and feeds every queued event to the tracker and the controller.
func (h *harness) pump(t *testing.T) []Change {
	t.Helper()
	h.sync(t)
	events, err := h.client.Dispatch()
	require.NoError(t, err)
	var changes []Change
	for _, ev := range events {
		if h.outputs.Handle(ev) {
			continue
		}
		if ch, ok := h.ctl.Handle(ev); ok {
			changes = append(changes, ch)
		}
	}
	return changes
}

func (h *harness) configureWindow(id ID, w, hgt int32, serial uint32) {
	s := h.ctl.surfaces[id]
	h.comp.Send(waylandtest.NewEvent(s.toplevel, waylandtest.EvToplevelConfigure).Int(w).Int(hgt).Array(nil))
	h.comp.Send(waylandtest.NewEvent(s.role, waylandtest.EvXdgSurfaceConfigure).Uint(serial))
}

func fill(color uint32) func(*shm.Buffer) {
	return func(b *shm.Buffer) {
		for i := range b.Pix {
			b.Pix[i] = color
		}
	}
}

func indexOf(msgs []waylandtest.Message, object wayland.ObjectID, opcode uint16) int {
	for i, m := range msgs {
		if m.Sender == object && m.Opcode == opcode {
			return i
		}
	}
	return -1
}

func TestWindow_AckPrecedesFirstBuffer(t *testing.T) {
	h := newHarness(t, wayland.Wants{Window: true})
	id, err := h.ctl.CreateWindow("wlview", "wlview")
	require.NoError(t, err)
	h.pump(t)

	s, _ := h.ctl.Get(id)
	assert.Equal(t, StateConfigurePending, s.State)
	assert.ErrorIs(t, h.ctl.Present(id, fill(0)), ErrNotReady)

	h.configureWindow(id, 1920, 1080, 5)
	changes := h.pump(t)
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeConfigured, changes[1].Kind)
	assert.True(t, changes[1].Resized)
	assert.Equal(t, []ID{id}, h.ctl.Dirty())

	require.NoError(t, h.ctl.Present(id, fill(0x123456)))
	h.sync(t)

	sent := h.comp.Sent()
	ack := indexOf(sent, h.ctl.surfaces[id].role, waylandtest.OpXdgSurfaceAckConfigure)
	attach := indexOf(sent, s.Object(), waylandtest.OpSurfaceAttach)
	require.GreaterOrEqual(t, ack, 0)
	require.GreaterOrEqual(t, attach, 0)
	assert.Less(t, ack, attach)
	assert.Empty(t, h.ctl.Dirty())

	s, _ = h.ctl.Get(id)
	assert.Equal(t, 1920, s.Width)
	assert.Equal(t, 1, s.Presented())
}

func TestWindow_ResizeProducesBufferOfNewSize(t *testing.T) {
	h := newHarness(t, wayland.Wants{Window: true})
	id, err := h.ctl.CreateWindow("wlview", "wlview")
	require.NoError(t, err)
	h.configureWindow(id, 1920, 1080, 1)
	h.pump(t)
	require.NoError(t, h.ctl.Present(id, fill(0)))

	h.configureWindow(id, 960, 540, 2)
	changes := h.pump(t)
	require.Len(t, changes, 2)
	assert.True(t, changes[1].Resized)

	h.comp.Reset()
	require.NoError(t, h.ctl.Present(id, fill(0)))
	h.sync(t)

	pools := h.comp.Requests(h.globals.Shm, 0)
	require.Len(t, pools, 1)
	newPool := waylandtest.NewDecoder(pools[0]).Object()
	bufs := h.comp.Requests(newPool, 0)
	require.Len(t, bufs, 2)
	d := waylandtest.NewDecoder(bufs[0])
	_ = d.Object()
	_ = d.Int()
	assert.Equal(t, int32(960), d.Int())
	assert.Equal(t, int32(540), d.Int())

	s, _ := h.ctl.Get(id)
	damage := h.comp.Requests(s.Object(), waylandtest.OpSurfaceDamageBuffer)
	require.Len(t, damage, 1)
	dd := waylandtest.NewDecoder(damage[0])
	assert.Equal(t, []int32{0, 0, 960, 540}, []int32{dd.Int(), dd.Int(), dd.Int(), dd.Int()})
}

func TestWindow_ZeroSizeUsesDefaultThenKeepsSize(t *testing.T) {
	h := newHarness(t, wayland.Wants{Window: true})
	id, err := h.ctl.CreateWindow("wlview", "wlview")
	require.NoError(t, err)

	h.configureWindow(id, 0, 0, 1)
	h.pump(t)
	s, _ := h.ctl.Get(id)
	assert.Equal(t, 800, s.Width)
	assert.Equal(t, 600, s.Height)
	require.NoError(t, h.ctl.Present(id, fill(0)))

	h.configureWindow(id, 0, 0, 2)
	changes := h.pump(t)
	require.Len(t, changes, 2)
	assert.False(t, changes[1].Resized)
	assert.Empty(t, h.ctl.Dirty())
}

func TestPresent_DefersWhileBothBuffersInFlight(t *testing.T) {
	h := newHarness(t, wayland.Wants{Window: true})
	id, err := h.ctl.CreateWindow("wlview", "wlview")
	require.NoError(t, err)
	h.configureWindow(id, 100, 100, 1)
	h.pump(t)

	require.NoError(t, h.ctl.Present(id, fill(1)))
	require.NoError(t, h.ctl.Present(id, fill(2)))
	require.NoError(t, h.ctl.Present(id, fill(3)))
	assert.Equal(t, []ID{id}, h.ctl.Dirty())

	s, _ := h.ctl.Get(id)
	assert.Equal(t, 2, s.Presented())

	states, ok := h.pool.State(s.Object())
	require.True(t, ok)
	assert.Equal(t, [2]shm.SlotState{shm.SlotInFlight, shm.SlotInFlight}, states)

	h.sync(t)
	attaches := h.comp.Requests(s.Object(), waylandtest.OpSurfaceAttach)
	require.Len(t, attaches, 2)
	first := waylandtest.NewDecoder(attaches[0]).Object()

	h.comp.Send(waylandtest.NewEvent(first, waylandtest.EvBufferRelease))
	changes := h.pump(t)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeReleased, changes[0].Kind)
	assert.Equal(t, id, changes[0].ID)
	assert.True(t, changes[0].Current)

	require.NoError(t, h.ctl.Present(id, fill(3)))
	s, _ = h.ctl.Get(id)
	assert.Equal(t, 3, s.Presented())
}

func TestWindow_CloseTearsDown(t *testing.T) {
	h := newHarness(t, wayland.Wants{Window: true})
	id, err := h.ctl.CreateWindow("wlview", "wlview")
	require.NoError(t, err)
	top := h.ctl.surfaces[id].toplevel

	h.comp.Send(waylandtest.NewEvent(top, waylandtest.EvToplevelClose))
	changes := h.pump(t)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeClosed, changes[0].Kind)
	assert.Equal(t, KindWindow, changes[0].SurfaceKind)
	assert.Zero(t, h.ctl.Len())
}

func TestKindsAreExclusive(t *testing.T) {
	h := newHarness(t, wayland.Wants{Window: true, Background: true})
	_, err := h.ctl.CreateWindow("a", "a")
	require.NoError(t, err)

	_, err = h.ctl.CreateBackgrounds(h.outputs.Outputs(), "wallpaper")
	assert.ErrorIs(t, err, ErrMixedSurfaceKinds)
	_, err = h.ctl.CreateWindow("b", "b")
	assert.Error(t, err)
}

func TestBackground_ZeroSizeResolvesFromOutputMode(t *testing.T) {
	h := newHarness(t, wayland.Wants{Background: true})
	ids, err := h.ctl.CreateBackgrounds(h.outputs.Outputs(), "wallpaper")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	h.sync(t)

	layers := h.comp.Requests(h.globals.LayerShell, waylandtest.OpLayerShellGetLayerSurface)
	require.Len(t, layers, 2)
	d := waylandtest.NewDecoder(layers[0])
	_ = d.Object()
	_ = d.Object()
	assert.Equal(t, h.globals.Outputs[0].Object, d.Object())
	assert.Equal(t, uint32(layershell.LayerBackground), d.Uint())
	assert.Equal(t, "wallpaper", d.String())

	for i, id := range ids {
		role := h.ctl.surfaces[id].role
		h.comp.Send(waylandtest.NewEvent(role, waylandtest.EvLayerSurfaceConfigure).Uint(uint32(10 + i)).Uint(0).Uint(0))
	}
	changes := h.pump(t)
	require.Len(t, changes, 2)
	for _, ch := range changes {
		assert.Equal(t, ChangeConfigured, ch.Kind)
		assert.True(t, ch.Resized)
	}

	first, _ := h.ctl.Get(ids[0])
	second, _ := h.ctl.Get(ids[1])
	assert.Equal(t, [2]int{1920, 1080}, [2]int{first.Width, first.Height})
	assert.Equal(t, [2]int{2560, 1440}, [2]int{second.Width, second.Height})
	assert.ElementsMatch(t, ids, h.ctl.Dirty())

	for _, id := range ids {
		require.NoError(t, h.ctl.Present(id, fill(0)))
	}
	assert.Empty(t, h.ctl.Dirty())

	// A repeated configure of the same size does not re-render.
	h.comp.Send(waylandtest.NewEvent(h.ctl.surfaces[ids[0]].role, waylandtest.EvLayerSurfaceConfigure).Uint(20).Uint(1920).Uint(1080))
	changes = h.pump(t)
	require.Len(t, changes, 1)
	assert.False(t, changes[0].Resized)
	assert.Empty(t, h.ctl.Dirty())
}

func TestBackground_ClosedRemovesOnlyThatOutput(t *testing.T) {
	h := newHarness(t, wayland.Wants{Background: true})
	ids, err := h.ctl.CreateBackgrounds(h.outputs.Outputs(), "wallpaper")
	require.NoError(t, err)

	h.comp.Send(waylandtest.NewEvent(h.ctl.surfaces[ids[0]].role, waylandtest.EvLayerSurfaceClosed))
	changes := h.pump(t)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeClosed, changes[0].Kind)
	assert.Equal(t, KindBackground, changes[0].SurfaceKind)
	assert.Equal(t, 1, h.ctl.Len())
	_, ok := h.ctl.Get(ids[1])
	assert.True(t, ok)
}

func TestFrameCallback(t *testing.T) {
	h := newHarness(t, wayland.Wants{Window: true})
	id, err := h.ctl.CreateWindow("wlview", "wlview")
	require.NoError(t, err)
	h.configureWindow(id, 10, 10, 1)
	h.pump(t)

	h.ctl.RequestFrame(id)
	frame := h.ctl.surfaces[id].frame
	require.NotZero(t, frame)
	h.ctl.RequestFrame(id)
	assert.Equal(t, frame, h.ctl.surfaces[id].frame)

	h.comp.Send(waylandtest.NewEvent(frame, waylandtest.EvCallbackDone).Uint(1234))
	changes := h.pump(t)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeFrame, changes[0].Kind)
	assert.Zero(t, h.ctl.surfaces[id].frame)
}
