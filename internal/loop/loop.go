package loop

import (
	"context"
	"time"
)

// Hooks is the application side of the loop. Every method runs on the loop
// goroutine.
type Hooks interface {
	// Flush sends queued protocol requests.
	Flush() error
	// WakeDeadline returns the nearest timer; ok is false when none is armed.
	WakeDeadline(now time.Time) (deadline time.Time, ok bool)
	// Dispatch handles every queued protocol event.
	Dispatch() error
	// Tick polls background work and expires timers.
	Tick(now time.Time) error
	// Redraw renders each surface that needs it, at most once.
	Redraw() error
	// Running is false once the application wants to stop.
	Running() bool
}

// Blocker waits until woken or until a timeout.
type Blocker interface {
	Wait(timeoutMS int) (bool, error)
	Wake()
}

// Clock is swapped in tests.
type Clock func() time.Time

// Run iterates until hooks stop running, a hook fails, or ctx is canceled.
// Each iteration flushes, blocks until woken or until the wake deadline
// passes, then dispatches, ticks and redraws in that order.
func Run(ctx context.Context, w Blocker, hooks Hooks, now Clock) error {
	if now == nil {
		now = time.Now
	}
	stop := context.AfterFunc(ctx, w.Wake)
	defer stop()

	for hooks.Running() {
		if ctx.Err() != nil {
			break
		}
		if err := hooks.Flush(); err != nil {
			return err
		}

		t := now()
		deadline, ok := hooks.WakeDeadline(t)
		woken, err := w.Wait(Timeout(t, deadline, ok))
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			break
		}

		if woken {
			if err := hooks.Dispatch(); err != nil {
				return err
			}
		}
		if err := hooks.Tick(now()); err != nil {
			return err
		}
		if err := hooks.Redraw(); err != nil {
			return err
		}
	}
	return hooks.Flush()
}
