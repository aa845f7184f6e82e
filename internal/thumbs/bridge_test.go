package thumbs

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gated blocks every item until the test lets it through.
type gated struct {
	started chan int
	gate    chan struct{}

	mu    sync.Mutex
	calls map[int]int
}

func newGated() *gated {
	return &gated{started: make(chan int, 16), gate: make(chan struct{}), calls: map[int]int{}}
}

func (g *gated) fn(it Item) (*image.RGBA, error) {
	g.mu.Lock()
	g.calls[it.Index]++
	g.mu.Unlock()
	g.started <- it.Index
	<-g.gate
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (g *gated) count(index int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[index]
}

func items(idx ...int) []Item {
	out := make([]Item, 0, len(idx))
	for _, i := range idx {
		out = append(out, Item{Index: i, Path: "img"})
	}
	return out
}

// collect polls until n results arrived.
func collect(t *testing.T, b *Bridge, n int) []Result {
	t.Helper()
	var got []Result
	require.Eventually(t, func() bool {
		got = append(got, b.Poll()...)
		return len(got) >= n
	}, 5*time.Second, time.Millisecond)
	return got
}

func indices(rs []Result) []int {
	out := make([]int, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Index)
	}
	return out
}

func TestRequest_PendingIndexIsNotDispatchedTwice(t *testing.T) {
	g := newGated()
	b := New(g.fn, nil)
	defer b.Close()

	b.Request(items(1, 2))
	assert.Equal(t, 2, b.PendingLen())
	assert.Equal(t, 1, <-g.started)

	b.Request(items(1, 2))
	b.Request(items(2))
	assert.Equal(t, 2, b.PendingLen())

	close(g.gate)
	got := collect(t, b, 2)
	assert.Equal(t, []int{1, 2}, indices(got))
	assert.Equal(t, 1, g.count(1))
	assert.Equal(t, 1, g.count(2))
	assert.Zero(t, b.PendingLen())

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, b.Poll())
}

func TestRequest_NewerBatchSupersedesUnstartedItems(t *testing.T) {
	g := newGated()
	b := New(g.fn, nil)
	defer b.Close()

	b.Request(items(0, 1, 2, 3))
	require.Equal(t, 0, <-g.started)

	b.Request(items(10, 11))
	assert.False(t, b.Pending(1))
	assert.True(t, b.Pending(10))

	close(g.gate)
	got := collect(t, b, 3)
	assert.Equal(t, []int{0, 10, 11}, indices(got))

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, b.Poll())
	for _, i := range []int{1, 2, 3} {
		assert.Zero(t, g.count(i), "item %d should have been dropped", i)
	}
	assert.Zero(t, b.PendingLen())
}

func TestRequest_SharedItemsSurviveSupersession(t *testing.T) {
	g := newGated()
	b := New(g.fn, nil)
	defer b.Close()

	b.Request(items(0, 1, 2))
	require.Equal(t, 0, <-g.started)

	// 2 is still wanted; 5 is new.
	b.Request(items(2, 5))
	close(g.gate)

	got := collect(t, b, 3)
	assert.ElementsMatch(t, []int{0, 2, 5}, indices(got))
	assert.Equal(t, 1, g.count(2))
	assert.Zero(t, g.count(1))
}

func TestRequest_RunningItemIsNotRepeatedByNewerBatch(t *testing.T) {
	g := newGated()
	b := New(g.fn, nil)
	defer b.Close()

	b.Request(items(0, 1, 2))
	require.Equal(t, 0, <-g.started)

	// 0 is still running and pending when the newer batch carries it along.
	b.Request(items(0, 5))
	close(g.gate)

	got := collect(t, b, 2)
	time.Sleep(10 * time.Millisecond)
	got = append(got, b.Poll()...)
	assert.Equal(t, []int{0, 5}, indices(got))
	assert.Equal(t, 1, g.count(0))
	assert.Equal(t, 1, g.count(5))
	assert.Zero(t, g.count(1))
	assert.Zero(t, b.PendingLen())
}

func TestRequest_FinishedButUnpolledItemIsNotRepeated(t *testing.T) {
	g := newGated()
	b := New(g.fn, nil)
	defer b.Close()

	b.Request(items(0, 1))
	require.Equal(t, 0, <-g.started)
	g.gate <- struct{}{}
	require.Equal(t, 1, <-g.started)

	// 0 has a result waiting that the loop has not polled yet.
	b.Request(items(0, 1, 7))
	close(g.gate)

	got := collect(t, b, 3)
	time.Sleep(10 * time.Millisecond)
	got = append(got, b.Poll()...)
	assert.ElementsMatch(t, []int{0, 1, 7}, indices(got))
	assert.Equal(t, 1, g.count(0))
	assert.Equal(t, 1, g.count(1))
}

func TestRequest_PolledItemCanBeRequestedAgain(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	b := New(func(it Item) (*image.RGBA, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil, nil
	}, nil)
	defer b.Close()

	b.Request(items(3))
	collect(t, b, 1)
	b.Request(items(3))
	collect(t, b, 1)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestFailedItemLeavesPendingSet(t *testing.T) {
	b := New(func(it Item) (*image.RGBA, error) {
		return nil, errors.New("corrupt")
	}, nil)
	defer b.Close()

	b.Request(items(7))
	got := collect(t, b, 1)
	require.Len(t, got, 1)
	assert.EqualError(t, got[0].Err, "corrupt")
	assert.False(t, b.Pending(7))
}

func TestWorkerPanicMarksBridgeDead(t *testing.T) {
	b := New(func(it Item) (*image.RGBA, error) {
		panic("decoder exploded")
	}, nil)
	defer b.Close()

	b.Request(items(1, 2))
	require.Eventually(t, func() bool {
		b.Poll()
		return b.Dead()
	}, 5*time.Second, time.Millisecond)

	assert.Zero(t, b.PendingLen())
	b.Request(items(3))
	assert.Zero(t, b.PendingLen())
	assert.Empty(t, b.Poll())
}

func TestCloseStopsWorker(t *testing.T) {
	b := New(func(it Item) (*image.RGBA, error) { return nil, nil }, nil)
	b.Close()
	b.Close()

	require.Eventually(t, func() bool {
		b.Poll()
		return b.Dead()
	}, 5*time.Second, time.Millisecond)
	b.Request(items(1))
	assert.Zero(t, b.PendingLen())
}

func TestWithWake_SignalsEachResultAndExit(t *testing.T) {
	wakes := make(chan struct{}, 8)
	b := New(func(it Item) (*image.RGBA, error) { return nil, nil }, nil, WithWake(func() {
		wakes <- struct{}{}
	}))

	b.Request(items(1, 2))
	for range 2 {
		select {
		case <-wakes:
		case <-time.After(5 * time.Second):
			t.Fatal("worker did not wake the loop")
		}
	}
	assert.Len(t, collect(t, b, 2), 2)

	b.Close()
	select {
	case <-wakes:
	case <-time.After(5 * time.Second):
		t.Fatal("worker exit did not wake the loop")
	}
}
