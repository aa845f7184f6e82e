// Package surface drives the lifecycle of display surfaces: creation, the
// configure/ack handshake, presentation and teardown.
package surface

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/wlview/internal/output"
	"github.com/1broseidon/wlview/internal/shm"
	"github.com/1broseidon/wlview/internal/wayland"
	"github.com/1broseidon/wlview/internal/wayland/layershell"
)

var (
	// ErrMixedSurfaceKinds is returned when a window and background surfaces
	// would coexist in one run.
	ErrMixedSurfaceKinds = errors.New("surface: a run uses either one window or background surfaces")
	// ErrNotReady is returned when presenting before the first configure.
	ErrNotReady = errors.New("surface: not configured yet")
	ErrUnknown  = errors.New("surface: unknown surface")
)

// Protocol is the compositor connection as seen by the controller.
type Protocol interface {
	shm.Protocol

	CreateSurface(compositor wayland.ObjectID) wayland.ObjectID
	SurfaceAttach(surface, buffer wayland.ObjectID, x, y int32)
	SurfaceDamageBuffer(surface wayland.ObjectID, x, y, w, h int32)
	SurfaceFrame(surface wayland.ObjectID) wayland.ObjectID
	SurfaceCommit(surface wayland.ObjectID)
	SurfaceDestroy(surface wayland.ObjectID)

	GetXdgSurface(wmBase, surface wayland.ObjectID) wayland.ObjectID
	GetToplevel(xdgSurface wayland.ObjectID) wayland.ObjectID
	XdgSurfaceAckConfigure(xdgSurface wayland.ObjectID, serial uint32)
	XdgSurfaceDestroy(xdgSurface wayland.ObjectID)
	ToplevelSetTitle(toplevel wayland.ObjectID, title string)
	ToplevelSetAppID(toplevel wayland.ObjectID, appID string)
	ToplevelSetFullscreen(toplevel wayland.ObjectID)
	ToplevelUnsetFullscreen(toplevel wayland.ObjectID)
	ToplevelDestroy(toplevel wayland.ObjectID)

	GetLayerSurface(shell, surface, output wayland.ObjectID, layer layershell.Layer, namespace string) wayland.ObjectID
	LayerSurfaceSetSize(ls wayland.ObjectID, width, height uint32)
	LayerSurfaceSetAnchor(ls wayland.ObjectID, anchor layershell.Anchor)
	LayerSurfaceSetExclusiveZone(ls wayland.ObjectID, zone int32)
	LayerSurfaceSetKeyboardInteractivity(ls wayland.ObjectID, mode layershell.KeyboardInteractivity)
	LayerSurfaceAckConfigure(ls wayland.ObjectID, serial uint32)
	LayerSurfaceDestroy(ls wayland.ObjectID)
}

// Handles are the globals surfaces are created from.
type Handles struct {
	Compositor wayland.ObjectID
	WmBase     wayland.ObjectID
	LayerShell wayland.ObjectID
}

// Options configures a Controller.
type Options struct {
	DefaultWidth  int
	DefaultHeight int
	Logger        *slog.Logger
}

// Controller owns every surface of the run.
type Controller struct {
	proto   Protocol
	pool    *shm.Pool
	handles Handles
	outputs *output.Tracker
	log     *slog.Logger

	defaultW int
	defaultH int

	surfaces map[ID]*Surface
	order    []ID
	nextID   ID
	byObject map[wayland.ObjectID]ID
	kind     Kind
	hasKind  bool
}

func NewController(proto Protocol, pool *shm.Pool, handles Handles, outputs *output.Tracker, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DefaultWidth <= 0 || opts.DefaultHeight <= 0 {
		opts.DefaultWidth, opts.DefaultHeight = 800, 600
	}
	return &Controller{
		proto:    proto,
		pool:     pool,
		handles:  handles,
		outputs:  outputs,
		log:      opts.Logger,
		defaultW: opts.DefaultWidth,
		defaultH: opts.DefaultHeight,
		surfaces: map[ID]*Surface{},
		nextID:   1,
		byObject: map[wayland.ObjectID]ID{},
	}
}

func (c *Controller) claimKind(k Kind) error {
	if c.hasKind && c.kind != k {
		return ErrMixedSurfaceKinds
	}
	if k == KindWindow && c.hasKind {
		return fmt.Errorf("surface: only one window per run")
	}
	c.kind = k
	c.hasKind = true
	return nil
}

func (c *Controller) add(s *Surface) ID {
	s.ID = c.nextID
	c.nextID++
	c.surfaces[s.ID] = s
	c.order = append(c.order, s.ID)
	for _, obj := range []wayland.ObjectID{s.wl, s.role, s.toplevel} {
		if obj != 0 {
			c.byObject[obj] = s.ID
		}
	}
	return s.ID
}

// Get returns a copy of the surface state.
func (c *Controller) Get(id ID) (Surface, bool) {
	s, ok := c.surfaces[id]
	if !ok {
		return Surface{}, false
	}
	return *s, true
}

// Surfaces returns the live surfaces in creation order.
func (c *Controller) Surfaces() []Surface {
	out := make([]Surface, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.surfaces[id])
	}
	return out
}

// Len reports how many surfaces are alive.
func (c *Controller) Len() int {
	return len(c.order)
}

// Dirty returns the configured surfaces that need a new frame.
func (c *Controller) Dirty() []ID {
	var out []ID
	for _, id := range c.order {
		s := c.surfaces[id]
		if s.State == StateReady && s.dirty {
			out = append(out, id)
		}
	}
	return out
}

// MarkDirty schedules a redraw.
func (c *Controller) MarkDirty(id ID) {
	if s, ok := c.surfaces[id]; ok {
		s.dirty = true
	}
}

// MarkAllDirty schedules a redraw of every surface.
func (c *Controller) MarkAllDirty() {
	for _, s := range c.surfaces {
		s.dirty = true
	}
}

// Present renders into a free buffer and commits it. When the compositor
// still holds both buffers the surface stays dirty and is presented again
// after a release.
func (c *Controller) Present(id ID, draw func(*shm.Buffer)) error {
	s, ok := c.surfaces[id]
	if !ok {
		return ErrUnknown
	}
	if s.State != StateReady {
		return ErrNotReady
	}
	buf, err := c.pool.Acquire(s.wl, s.Width, s.Height)
	if errors.Is(err, shm.ErrBusy) {
		s.dirty = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("surface %d: %w", id, err)
	}

	draw(buf)

	obj, err := c.pool.Submit(buf)
	if err != nil {
		return err
	}
	c.proto.SurfaceAttach(s.wl, obj, 0, 0)
	c.proto.SurfaceDamageBuffer(s.wl, 0, 0, int32(s.Width), int32(s.Height))
	c.proto.SurfaceCommit(s.wl)
	s.dirty = false
	s.presented++
	return nil
}

// RequestFrame asks for a frame callback tied to the next commit.
func (c *Controller) RequestFrame(id ID) {
	s, ok := c.surfaces[id]
	if !ok || s.frame != 0 {
		return
	}
	s.frame = c.proto.SurfaceFrame(s.wl)
	c.byObject[s.frame] = id
}

// Close tears down one surface: its buffers and its protocol objects.
func (c *Controller) Close(id ID) {
	s, ok := c.surfaces[id]
	if !ok {
		return
	}
	c.pool.Drop(s.wl)
	switch s.Kind {
	case KindWindow:
		c.proto.ToplevelDestroy(s.toplevel)
		c.proto.XdgSurfaceDestroy(s.role)
	case KindBackground:
		c.proto.LayerSurfaceDestroy(s.role)
	}
	c.proto.SurfaceDestroy(s.wl)
	s.State = StateClosed

	for obj, sid := range c.byObject {
		if sid == id {
			delete(c.byObject, obj)
		}
	}
	delete(c.surfaces, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.log.Debug("surface closed", "surface", id, "kind", s.Kind.String())
}

// CloseAll tears down every surface.
func (c *Controller) CloseAll() {
	for _, id := range append([]ID(nil), c.order...) {
		c.Close(id)
	}
}

// Handle applies a surface-related event. ok is false when ev does not
// belong to any surface.
func (c *Controller) Handle(ev wayland.Event) (Change, bool) {
	if rel, ok := ev.(wayland.BufferRelease); ok {
		return c.handleRelease(rel)
	}
	id, ok := c.byObject[ev.Source()]
	if !ok {
		return Change{}, false
	}
	s := c.surfaces[id]

	switch e := ev.(type) {
	case wayland.ToplevelConfigure:
		s.pendingW = int(e.Width)
		s.pendingH = int(e.Height)
		s.pendingFullscreen = e.Fullscreen()
		return Change{ID: id, Kind: ChangeNone}, true
	case wayland.XdgSurfaceConfigure:
		return c.configureWindow(s, e.Serial), true
	case wayland.LayerSurfaceConfigure:
		return c.configureBackground(s, e), true
	case wayland.ToplevelClose, wayland.LayerSurfaceClosed:
		kind := s.Kind
		c.Close(id)
		return Change{ID: id, Kind: ChangeClosed, SurfaceKind: kind}, true
	case wayland.CallbackDone:
		if ev.Source() != s.frame {
			return Change{}, false
		}
		delete(c.byObject, s.frame)
		s.frame = 0
		return Change{ID: id, Kind: ChangeFrame}, true
	case wayland.SurfaceEnter, wayland.SurfaceLeave:
		return Change{ID: id, Kind: ChangeNone}, true
	}
	return Change{}, false
}

func (c *Controller) handleRelease(e wayland.BufferRelease) (Change, bool) {
	if !c.pool.Owns(e.Source()) {
		return Change{}, false
	}
	key, current := c.pool.Release(e.Source())
	id, ok := c.byObject[key]
	if !ok {
		return Change{Kind: ChangeReleased}, true
	}
	return Change{ID: id, Kind: ChangeReleased, Current: current}, true
}
