// Package loop runs the single-threaded event loop: flush, wait for the
// socket or the nearest timer, then let the application react.
package loop

import "time"

// Timer is one optional deadline. The zero value is unarmed.
type Timer struct {
	At    time.Time
	Armed bool
}

// At returns an armed timer firing at t.
func At(t time.Time) Timer {
	return Timer{At: t, Armed: true}
}

// After returns an armed timer firing d after now.
func After(now time.Time, d time.Duration) Timer {
	return At(now.Add(d))
}

// WakeDeadline returns the earliest armed timer. ok is false when nothing is
// armed, meaning the loop may block until something wakes it.
func WakeDeadline(timers ...Timer) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, t := range timers {
		if !t.Armed {
			continue
		}
		if !found || t.At.Before(earliest) {
			earliest = t.At
			found = true
		}
	}
	return earliest, found
}

// Timeout converts a deadline into a poll timeout in milliseconds: -1 blocks
// indefinitely, 0 returns immediately for deadlines already passed.
func Timeout(now, deadline time.Time, ok bool) int {
	if !ok {
		return -1
	}
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	// Round up so the loop never wakes just before the deadline.
	ms := (d + time.Millisecond - 1) / time.Millisecond
	return int(ms)
}
