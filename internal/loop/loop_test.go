package loop

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestWakeDeadline_PicksEarliestArmed(t *testing.T) {
	anim := After(epoch, 40*time.Millisecond)
	msg := After(epoch, 3*time.Second)
	poll := After(epoch, 16*time.Millisecond)

	got, ok := WakeDeadline(anim, Timer{}, msg, poll)
	if !ok || !got.Equal(epoch.Add(16*time.Millisecond)) {
		t.Fatalf("WakeDeadline() = %v, %v; want poll deadline", got, ok)
	}

	got, ok = WakeDeadline(msg, anim)
	if !ok || !got.Equal(epoch.Add(40*time.Millisecond)) {
		t.Fatalf("WakeDeadline() = %v, %v; want animation deadline", got, ok)
	}
}

func TestWakeDeadline_NoTimersBlocksIndefinitely(t *testing.T) {
	if _, ok := WakeDeadline(Timer{}, Timer{}); ok {
		t.Fatal("WakeDeadline() with no armed timers should report false")
	}
	if got := Timeout(epoch, time.Time{}, false); got != -1 {
		t.Fatalf("Timeout() = %d; want -1", got)
	}
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"past", epoch.Add(-time.Second), 0},
		{"now", epoch, 0},
		{"frame", epoch.Add(16 * time.Millisecond), 16},
		{"rounds up", epoch.Add(1500 * time.Microsecond), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timeout(epoch, tt.deadline, true); got != tt.want {
				t.Fatalf("Timeout() = %d; want %d", got, tt.want)
			}
		})
	}
}

type fakeBlocker struct {
	timeouts []int
	woken    []bool
}

func (f *fakeBlocker) Wait(timeoutMS int) (bool, error) {
	f.timeouts = append(f.timeouts, timeoutMS)
	if len(f.woken) == 0 {
		return false, nil
	}
	r := f.woken[0]
	f.woken = f.woken[1:]
	return r, nil
}

func (f *fakeBlocker) Wake() {}

type fakeHooks struct {
	calls      []string
	iterations int
	deadline   Timer
	dispatch   error
}

func (h *fakeHooks) Flush() error {
	h.calls = append(h.calls, "flush")
	return nil
}

func (h *fakeHooks) WakeDeadline(now time.Time) (time.Time, bool) {
	return h.deadline.At, h.deadline.Armed
}

func (h *fakeHooks) Dispatch() error {
	h.calls = append(h.calls, "dispatch")
	return h.dispatch
}

func (h *fakeHooks) Tick(now time.Time) error {
	h.calls = append(h.calls, "tick")
	return nil
}

func (h *fakeHooks) Redraw() error {
	h.calls = append(h.calls, "redraw")
	h.iterations--
	return nil
}

func (h *fakeHooks) Running() bool { return h.iterations > 0 }

func TestRun_IterationOrder(t *testing.T) {
	b := &fakeBlocker{woken: []bool{true, false}}
	h := &fakeHooks{iterations: 2, deadline: After(epoch, 16*time.Millisecond)}

	if err := Run(context.Background(), b, h, func() time.Time { return epoch }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{
		"flush", "dispatch", "tick", "redraw",
		"flush", "tick", "redraw",
		"flush",
	}
	if !reflect.DeepEqual(h.calls, want) {
		t.Fatalf("calls = %v; want %v", h.calls, want)
	}
	if !reflect.DeepEqual(b.timeouts, []int{16, 16}) {
		t.Fatalf("timeouts = %v; want [16 16]", b.timeouts)
	}
}

func TestRun_NoDeadlineBlocks(t *testing.T) {
	b := &fakeBlocker{}
	h := &fakeHooks{iterations: 1}
	if err := Run(context.Background(), b, h, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(b.timeouts, []int{-1}) {
		t.Fatalf("timeouts = %v; want [-1]", b.timeouts)
	}
}

func TestRun_DispatchErrorStops(t *testing.T) {
	b := &fakeBlocker{woken: []bool{true}}
	h := &fakeHooks{iterations: 5, dispatch: errors.New("gone")}
	err := Run(context.Background(), b, h, nil)
	if err == nil || err.Error() != "gone" {
		t.Fatalf("Run() error = %v; want gone", err)
	}
	for _, c := range h.calls {
		if c == "tick" {
			t.Fatalf("tick ran after a dispatch error: %v", h.calls)
		}
	}
}

func TestRun_CanceledContextReturns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := &fakeHooks{iterations: 5}
	if err := Run(ctx, &fakeBlocker{}, h, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(h.calls, []string{"flush"}) {
		t.Fatalf("calls = %v; want [flush]", h.calls)
	}
}
