// Package thumbs runs thumbnail generation on one worker goroutine and hands
// results back to the event loop without blocking it.
package thumbs

import (
	"fmt"
	"image"
	"log/slog"
)

// Item asks for the thumbnail of one gallery entry.
type Item struct {
	Index int
	Path  string
}

// Result is a finished thumbnail. Err is set when generation failed; the
// index still leaves the pending set.
type Result struct {
	Index int
	Path  string
	Image *image.RGBA
	Err   error
}

// Func generates one thumbnail. It runs on the worker goroutine.
type Func func(Item) (*image.RGBA, error)

// resultBuffer bounds how far the worker can run ahead of the loop.
const resultBuffer = 64

// Bridge is owned by the event loop goroutine.
type Bridge struct {
	requests chan []job
	results  chan Result
	pending  map[int]struct{}
	dead     bool
	closed   bool
	log      *slog.Logger
}

// job is one batch entry. Carried entries were already pending when the
// batch was built; the worker skips them if it has produced them since they
// were last requested fresh.
type job struct {
	Item
	carried bool
}

// Option configures a Bridge.
type Option func(*options)

type options struct {
	wake func()
}

// WithWake makes the worker call wake after each result it queues and when it
// exits, so a loop blocked in poll notices without a timer. wake runs on the
// worker goroutine.
func WithWake(wake func()) Option {
	return func(o *options) { o.wake = wake }
}

// New starts the worker.
func New(fn Func, log *slog.Logger, opts ...Option) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	o := options{wake: func() {}}
	for _, opt := range opts {
		opt(&o)
	}
	b := &Bridge{
		requests: make(chan []job, 1),
		results:  make(chan Result, resultBuffer),
		pending:  map[int]struct{}{},
		log:      log,
	}
	go work(fn, b.requests, b.results, o.wake, log)
	return b
}

// Request sends the list of still-wanted items. Items already pending are not
// sent again unless the batch is being replaced anyway, and the worker never
// runs a carried item twice; when nothing new is wanted the call is a no-op.
// Pending items missing from want are forgotten: the worker drops them if it
// has not started them.
func (b *Bridge) Request(want []Item) {
	if b.dead || b.closed {
		return
	}
	fresh := false
	wanted := make(map[int]struct{}, len(want))
	for _, it := range want {
		wanted[it.Index] = struct{}{}
		if _, ok := b.pending[it.Index]; !ok {
			fresh = true
		}
	}
	if !fresh {
		return
	}
	for idx := range b.pending {
		if _, ok := wanted[idx]; !ok {
			delete(b.pending, idx)
		}
	}

	// Single-slot queue, latest wins. Only this goroutine sends, so after
	// draining the slot the send cannot block. Entries that were fresh in a
	// batch the worker never saw stay fresh.
	unseen := map[int]struct{}{}
	select {
	case old := <-b.requests:
		for _, j := range old {
			if !j.carried {
				unseen[j.Index] = struct{}{}
			}
		}
	default:
	}

	batch := make([]job, 0, len(want))
	seen := make(map[int]struct{}, len(want))
	for _, it := range want {
		if _, dup := seen[it.Index]; dup {
			continue
		}
		seen[it.Index] = struct{}{}
		_, wasPending := b.pending[it.Index]
		_, neverSent := unseen[it.Index]
		batch = append(batch, job{Item: it, carried: wasPending && !neverSent})
		b.pending[it.Index] = struct{}{}
	}
	b.requests <- batch
}

// Poll drains finished results without blocking. Each pending index leaves
// the pending set exactly once. A closed result queue marks the bridge dead.
func (b *Bridge) Poll() []Result {
	if b.dead {
		return nil
	}
	var out []Result
	for {
		select {
		case r, ok := <-b.results:
			if !ok {
				b.dead = true
				if !b.closed {
					b.log.Warn("thumbnail worker stopped", "pending", len(b.pending))
				}
				b.pending = map[int]struct{}{}
				return out
			}
			delete(b.pending, r.Index)
			out = append(out, r)
		default:
			return out
		}
	}
}

// Pending reports whether index is waiting for a result.
func (b *Bridge) Pending(index int) bool {
	_, ok := b.pending[index]
	return ok
}

// PendingLen reports the size of the pending set.
func (b *Bridge) PendingLen() int {
	return len(b.pending)
}

// Dead reports whether the worker is gone.
func (b *Bridge) Dead() bool {
	return b.dead
}

// Close stops the worker after its current item.
func (b *Bridge) Close() {
	if b.closed {
		return
	}
	b.closed = true
	close(b.requests)
}

// work always drains the most recent batch: between items it checks for a
// newer one and abandons the rest of the current batch if found. produced
// remembers what was delivered since each index was last requested fresh, so
// a carried entry that is running or finished is not run again.
func work(fn Func, requests <-chan []job, results chan<- Result, wake func(), log *slog.Logger) {
	defer wake()
	defer close(results)
	defer func() {
		if r := recover(); r != nil {
			log.Error("thumbnail worker panicked", "panic", fmt.Sprint(r))
		}
	}()

	produced := map[int]struct{}{}
	var batch []job
	receive := func(next []job) {
		batch = nil
		for _, j := range next {
			if !j.carried {
				delete(produced, j.Index)
				batch = append(batch, j)
				continue
			}
			if _, done := produced[j.Index]; !done {
				batch = append(batch, j)
			}
		}
	}

	for {
		if len(batch) == 0 {
			next, ok := <-requests
			if !ok {
				return
			}
			receive(next)
			continue
		}
		select {
		case next, ok := <-requests:
			if !ok {
				return
			}
			receive(next)
			continue
		default:
		}

		j := batch[0]
		batch = batch[1:]
		img, err := fn(j.Item)
		produced[j.Index] = struct{}{}
		results <- Result{Index: j.Index, Path: j.Path, Image: img, Err: err}
		wake()
	}
}
