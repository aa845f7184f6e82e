// Package wayland adapts the go-wayland client runtime to wlview: objects
// are addressed by id, and compositor events arrive as one closed set of
// values drained by the event loop.
package wayland

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/yaslama/go-wayland/wayland/client"
	"golang.org/x/sys/unix"

	"github.com/1broseidon/wlview/internal/runtimepath"
)

// ProtocolError is a fatal wl_display.error sent by the compositor.
type ProtocolError struct {
	ObjectID  ObjectID
	Interface Interface
	Code      uint32
	Message   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error on %s@%d (code %d): %s", e.Interface, e.ObjectID, e.Code, e.Message)
}

// ErrDisconnected is returned once the connection to the compositor is gone.
var ErrDisconnected = errors.New("compositor closed the connection")

// Client owns the connection and the id -> proxy table. Everything except
// Wake must be called from one goroutine, the loop's: the library context is
// not shared.
type Client struct {
	display *client.Display
	ctx     *client.Context
	log     *slog.Logger

	objects map[ObjectID]client.Proxy
	kinds   map[ObjectID]Interface
	queue   []Event
	err     error

	// spare is a registered wl_callback that Wake may spend on a sync
	// request. The loop goroutine refills it.
	spare chan *client.Callback
}

// Connect dials the compositor named by the environment.
func Connect(log *slog.Logger) (*Client, error) {
	path, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("locate compositor socket: %w", err)
	}
	return Dial(path, log)
}

// Dial connects to the compositor socket at path.
func Dial(path string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	display, err := client.Connect(path)
	if err != nil {
		return nil, fmt.Errorf("connect to compositor: %w", err)
	}
	c := &Client{
		display: display,
		ctx:     display.Context(),
		log:     log,
		objects: map[ObjectID]client.Proxy{},
		kinds:   map[ObjectID]Interface{},
		spare:   make(chan *client.Callback, 1),
	}
	c.track(display, IfaceDisplay)
	display.SetErrorHandler(c.displayError)
	display.SetDeleteIdHandler(c.deleteID)
	return c, nil
}

// Kind returns the interface of a live object.
func (c *Client) Kind(id ObjectID) Interface {
	return c.kinds[id]
}

func (c *Client) track(p client.Proxy, kind Interface) ObjectID {
	id := ObjectID(p.ID())
	c.objects[id] = p
	c.kinds[id] = kind
	return id
}

func (c *Client) untrack(id ObjectID) {
	delete(c.objects, id)
	delete(c.kinds, id)
}

// lookup returns the live proxy for id if it has type T.
func lookup[T client.Proxy](c *Client, id ObjectID) (T, bool) {
	p, ok := c.objects[id]
	t, isT := p.(T)
	if !ok || !isT {
		c.log.Debug("request on unknown object", "object", id)
		return t, false
	}
	return t, true
}

// check records the first failed request. Requests are written
// immediately; the error surfaces on the next Flush.
func (c *Client) check(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, unix.EPIPE) || errors.Is(err, net.ErrClosed) {
		c.fail(fmt.Errorf("%w: %v", ErrDisconnected, err))
		return false
	}
	c.fail(fmt.Errorf("send request: %w", err))
	return false
}

func (c *Client) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Client) emit(ev Event) {
	c.queue = append(c.queue, ev)
}

// Flush reports the first request that failed to send. Requests are not
// buffered, so there is nothing else to write.
func (c *Client) Flush() error {
	return c.err
}

// Dispatch returns the queued events in arrival order. Once the queue is
// empty it reports the connection error, if any.
func (c *Client) Dispatch() ([]Event, error) {
	events := c.queue
	c.queue = nil
	if len(events) == 0 && c.err != nil {
		return nil, c.err
	}
	return events, nil
}

// dispatchOne blocks until one message has been read and handled.
func (c *Client) dispatchOne() error {
	if c.err != nil {
		return c.err
	}
	if err := c.ctx.Dispatch(); err != nil {
		c.fail(fmt.Errorf("%w: %v", ErrDisconnected, err))
	}
	return c.err
}

// Wait blocks until the compositor sends something, Wake is called, or
// timeoutMS milliseconds pass (-1 for no limit). It reports whether a
// message was handled. A timer wakes through the same path as Wake.
func (c *Client) Wait(timeoutMS int) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if timeoutMS == 0 {
		return false, nil
	}
	c.refill()
	if timeoutMS > 0 {
		t := time.AfterFunc(time.Duration(timeoutMS)*time.Millisecond, c.Wake)
		defer t.Stop()
	}
	if err := c.dispatchOne(); err != nil {
		return false, err
	}
	return true, nil
}

// refill registers a fresh wake callback when the last one was spent.
func (c *Client) refill() {
	if len(c.spare) > 0 {
		return
	}
	cb := client.NewCallback(c.ctx)
	c.track(cb, IfaceCallback)
	c.spare <- cb
}

// Wake makes a blocked Wait return by asking the compositor for a sync
// reply. Safe from any goroutine. Wakes coalesce while one is in flight.
func (c *Client) Wake() {
	select {
	case cb := <-c.spare:
		if err := c.sendNewID(c.display, opDisplaySync, cb); err != nil {
			c.log.Debug("wake failed", "error", err)
		}
	default:
	}
}

// Roundtrip blocks until the compositor has processed every request sent so
// far. Events received meanwhile stay queued for Dispatch.
func (c *Client) Roundtrip() error {
	done := false
	cb := client.NewCallback(c.ctx)
	cb.SetDoneHandler(func(client.CallbackDoneEvent) { done = true })
	c.track(cb, IfaceCallback)
	if !c.check(c.sendNewID(c.display, opDisplaySync, cb)) {
		return c.err
	}
	for !done {
		if err := c.dispatchOne(); err != nil {
			return err
		}
	}
	return nil
}

// sendNewID writes a request whose single argument is a new object id. The
// object is registered and its handlers installed before the request leaves.
func (c *Client) sendNewID(sender client.Proxy, opcode uint32, id client.Proxy) error {
	var buf [12]byte
	client.PutUint32(buf[0:4], sender.ID())
	client.PutUint32(buf[4:8], uint32(len(buf))<<16|opcode)
	client.PutUint32(buf[8:12], id.ID())
	return c.ctx.WriteMsg(buf[:], nil)
}

func (c *Client) displayError(e client.DisplayErrorEvent) {
	perr := &ProtocolError{Code: e.Code, Message: e.Message}
	if e.ObjectId != nil {
		perr.ObjectID = ObjectID(e.ObjectId.ID())
		perr.Interface = c.kinds[perr.ObjectID]
	}
	c.fail(perr)
}

func (c *Client) deleteID(e client.DisplayDeleteIdEvent) {
	id := ObjectID(e.Id)
	if p, ok := c.objects[id]; ok {
		c.ctx.Unregister(p)
	}
	c.untrack(id)
}

// Close disconnects from the compositor.
func (c *Client) Close() error {
	return c.ctx.Close()
}
