// Package shm manages double-buffered shared memory for surfaces.
package shm

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"unsafe"

	"github.com/1broseidon/wlview/internal/wayland"
)

// ErrBusy is returned by Acquire when both buffers are held by the compositor.
var ErrBusy = errors.New("shm: both buffers are in flight")

// BytesPerPixel for XRGB8888.
const BytesPerPixel = 4

// Protocol is the subset of the compositor connection the pool drives.
type Protocol interface {
	CreatePool(shm wayland.ObjectID, fd int, size int32) wayland.ObjectID
	PoolCreateBuffer(pool wayland.ObjectID, offset, width, height, stride int32, format uint32) wayland.ObjectID
	PoolDestroy(pool wayland.ObjectID)
	BufferDestroy(buffer wayland.ObjectID)
}

// SlotState is the lifecycle of one buffer of a pair.
type SlotState int

const (
	SlotFree SlotState = iota
	SlotWritable
	SlotInFlight
)

func (s SlotState) String() string {
	switch s {
	case SlotFree:
		return "free"
	case SlotWritable:
		return "writable"
	case SlotInFlight:
		return "in-flight"
	default:
		return "unknown"
	}
}

// Buffer is a writable view of one slot, handed out by Acquire.
type Buffer struct {
	Object wayland.ObjectID
	Width  int
	Height int
	Stride int
	// Pix holds Width*Height pixels as 0x00RRGGBB.
	Pix []uint32

	pair *pair
	slot int
}

type slot struct {
	buffer wayland.ObjectID
	state  SlotState
}

type pair struct {
	key     wayland.ObjectID
	width   int
	height  int
	region  Region
	pool    wayland.ObjectID
	slots   [2]slot
	retired bool
}

func (p *pair) inFlight() bool {
	return p.slots[0].state == SlotInFlight || p.slots[1].state == SlotInFlight
}

type slotRef struct {
	pair *pair
	slot int
}

// Pool owns the buffer pairs of every surface, keyed by wl_surface id.
type Pool struct {
	proto Protocol
	shm   wayland.ObjectID
	alloc Allocator
	log   *slog.Logger

	current  map[wayland.ObjectID]*pair
	byBuffer map[wayland.ObjectID]slotRef
}

func NewPool(proto Protocol, shm wayland.ObjectID, alloc Allocator, log *slog.Logger) *Pool {
	if alloc == nil {
		alloc = MemfdAllocator{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{
		proto:    proto,
		shm:      shm,
		alloc:    alloc,
		log:      log,
		current:  map[wayland.ObjectID]*pair{},
		byBuffer: map[wayland.ObjectID]slotRef{},
	}
}

// Acquire returns a writable buffer of w x h for the surface key. A pair of
// different dimensions is retired and replaced. It returns ErrBusy when the
// compositor holds both buffers.
func (p *Pool) Acquire(key wayland.ObjectID, w, h int) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("shm: invalid buffer size %dx%d", w, h)
	}
	pr := p.current[key]
	if pr != nil && (pr.width != w || pr.height != h) {
		p.retire(pr)
		pr = nil
	}
	if pr == nil {
		var err error
		pr, err = p.newPair(key, w, h)
		if err != nil {
			return nil, err
		}
		p.current[key] = pr
	}

	idx := -1
	for i := range pr.slots {
		if pr.slots[i].state == SlotWritable {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i := range pr.slots {
			if pr.slots[i].state == SlotFree {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil, ErrBusy
	}
	pr.slots[idx].state = SlotWritable

	frame := w * h
	raw := pr.region.Bytes()[idx*frame*BytesPerPixel : (idx+1)*frame*BytesPerPixel]
	return &Buffer{
		Object: pr.slots[idx].buffer,
		Width:  w,
		Height: h,
		Stride: w * BytesPerPixel,
		Pix:    unsafe.Slice((*uint32)(unsafe.Pointer(&raw[0])), frame),
		pair:   pr,
		slot:   idx,
	}, nil
}

// Submit marks b as handed to the compositor and returns the wl_buffer to
// attach. b must not be written afterwards.
func (p *Pool) Submit(b *Buffer) (wayland.ObjectID, error) {
	s := &b.pair.slots[b.slot]
	if s.state != SlotWritable {
		return 0, fmt.Errorf("shm: submit of %s buffer %d", s.state, s.buffer)
	}
	s.state = SlotInFlight
	return s.buffer, nil
}

// Release handles wl_buffer.release. It returns the surface key the buffer
// belongs to and whether that pair is still current.
func (p *Pool) Release(buffer wayland.ObjectID) (wayland.ObjectID, bool) {
	ref, ok := p.byBuffer[buffer]
	if !ok {
		return 0, false
	}
	ref.pair.slots[ref.slot].state = SlotFree
	if ref.pair.retired {
		if !ref.pair.inFlight() {
			p.destroy(ref.pair)
		}
		return ref.pair.key, false
	}
	return ref.pair.key, true
}

// Owns reports whether buffer is managed by the pool.
func (p *Pool) Owns(buffer wayland.ObjectID) bool {
	_, ok := p.byBuffer[buffer]
	return ok
}

// State returns the slot states of the current pair for key.
func (p *Pool) State(key wayland.ObjectID) ([2]SlotState, bool) {
	pr, ok := p.current[key]
	if !ok {
		return [2]SlotState{}, false
	}
	return [2]SlotState{pr.slots[0].state, pr.slots[1].state}, true
}

// Drop destroys every buffer of key immediately, in flight or not. Used when
// the surface itself goes away.
func (p *Pool) Drop(key wayland.ObjectID) {
	for _, ref := range p.byBuffer {
		if ref.pair.key == key && ref.pair != p.current[key] {
			p.destroy(ref.pair)
		}
	}
	if pr, ok := p.current[key]; ok {
		p.destroy(pr)
		delete(p.current, key)
	}
}

// Close drops every pair.
func (p *Pool) Close() {
	for key := range p.current {
		p.Drop(key)
	}
	for _, ref := range p.byBuffer {
		p.destroy(ref.pair)
	}
}

func (p *Pool) newPair(key wayland.ObjectID, w, h int) (*pair, error) {
	frame := w * h * BytesPerPixel
	size := 2 * frame
	if size > math.MaxInt32 || w*BytesPerPixel > math.MaxInt32 {
		return nil, fmt.Errorf("shm: %dx%d buffer pair too large", w, h)
	}
	region, err := p.alloc.Allocate(size)
	if err != nil {
		return nil, fmt.Errorf("allocate %dx%d buffers: %w", w, h, err)
	}

	pr := &pair{key: key, width: w, height: h, region: region}
	pr.pool = p.proto.CreatePool(p.shm, region.Fd(), int32(size))
	for i := range pr.slots {
		pr.slots[i].buffer = p.proto.PoolCreateBuffer(pr.pool, int32(i*frame), int32(w), int32(h), int32(w*BytesPerPixel), wayland.ShmFormatXRGB8888)
		p.byBuffer[pr.slots[i].buffer] = slotRef{pair: pr, slot: i}
	}
	p.log.Debug("buffer pair created", "surface", key, "width", w, "height", h)
	return pr, nil
}

func (p *Pool) retire(pr *pair) {
	delete(p.current, pr.key)
	pr.retired = true
	if !pr.inFlight() {
		p.destroy(pr)
	}
}

func (p *Pool) destroy(pr *pair) {
	for i := range pr.slots {
		if _, ok := p.byBuffer[pr.slots[i].buffer]; !ok {
			continue
		}
		p.proto.BufferDestroy(pr.slots[i].buffer)
		delete(p.byBuffer, pr.slots[i].buffer)
	}
	if pr.pool != 0 {
		p.proto.PoolDestroy(pr.pool)
		pr.pool = 0
	}
	if pr.region != nil {
		if err := pr.region.Close(); err != nil {
			p.log.Warn("release shared memory", "surface", pr.key, "error", err)
		}
		pr.region = nil
	}
}
