// Package waylandtest serves a minimal scripted compositor on a private unix
// socket so protocol-level behavior can be tested without a display.
package waylandtest

import (
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/1broseidon/wlview/internal/wayland"
)

// Global is one advertised registry entry.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Mode is the current mode reported for an output global.
type Mode struct {
	Width, Height int32
}

// DefaultGlobals advertises everything wlview can use plus two outputs.
func DefaultGlobals() []Global {
	return []Global{
		{1, "wl_compositor", 5},
		{2, "wl_shm", 1},
		{3, "wl_seat", 7},
		{4, "xdg_wm_base", 3},
		{5, "zwlr_layer_shell_v1", 4},
		{6, "wl_output", 4},
		{7, "wl_output", 4},
	}
}

// Compositor answers sync, get_registry and bind, and records every request.
// Requests are handled in order, so after the client's Roundtrip returns all
// earlier requests are visible.
type Compositor struct {
	globals  []Global
	path     string
	ln       *net.UnixListener
	accepted chan struct{}
	done     chan struct{}

	wmu  sync.Mutex
	conn *net.UnixConn

	mu       sync.Mutex
	modes    map[uint32]Mode
	registry wayland.ObjectID
	bound    map[string][]wayland.ObjectID
	sent     []Message
}

// New listens on a fresh socket advertising globals. The socket goes away
// when the test ends.
func New(t testing.TB, globals ...Global) *Compositor {
	t.Helper()
	// Socket paths are length-limited; t.TempDir can be too deep.
	dir, err := os.MkdirTemp("", "wlv")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	path := filepath.Join(dir, "wayland-test")
	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		_ = os.RemoveAll(dir)
		t.Fatalf("listen: %v", err)
	}
	c := &Compositor{
		globals:  globals,
		path:     path,
		ln:       ln,
		accepted: make(chan struct{}),
		done:     make(chan struct{}),
		modes:    map[uint32]Mode{},
		bound:    map[string][]wayland.ObjectID{},
	}
	go c.serve()
	t.Cleanup(func() {
		_ = ln.Close()
		c.Hangup()
		<-c.done
		_ = os.RemoveAll(dir)
	})
	return c
}

// Path is the socket the compositor listens on.
func (c *Compositor) Path() string {
	return c.path
}

// Client connects a wayland.Client and closes it when the test ends.
func (c *Compositor) Client(t testing.TB) *wayland.Client {
	t.Helper()
	cl, err := wayland.Dial(c.path, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = cl.Close() })
	return cl
}

// SetMode makes output global name report a current mode when bound.
func (c *Compositor) SetMode(name uint32, m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modes[name] = m
}

func (c *Compositor) serve() {
	defer close(c.done)
	conn, err := c.ln.AcceptUnix()
	if err != nil {
		close(c.accepted)
		return
	}
	c.wmu.Lock()
	c.conn = conn
	c.wmu.Unlock()
	close(c.accepted)

	var buf []byte
	data := make([]byte, 4096)
	oob := make([]byte, unix.CmsgSpace(28*4))
	for {
		for {
			m, size, ok := parseHeader(buf)
			if !ok {
				break
			}
			buf = buf[size:]
			c.record(m)
			c.reply(m)
		}
		n, oobn, _, _, err := conn.ReadMsgUnix(data, oob)
		if err != nil || n == 0 {
			return
		}
		closeRights(oob[:oobn])
		buf = append(buf, data[:n]...)
	}
}

// closeRights closes descriptors passed with a request. Tests only look at
// the request arguments.
func closeRights(oob []byte) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return
	}
	for _, m := range msgs {
		fds, err := unix.ParseUnixRights(&m)
		if err != nil {
			continue
		}
		for _, fd := range fds {
			_ = unix.Close(fd)
		}
	}
}

func (c *Compositor) record(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, m)
}

func (c *Compositor) reply(m Message) {
	d := NewDecoder(m)
	c.mu.Lock()
	registry := c.registry
	c.mu.Unlock()

	switch {
	case m.Sender == DisplayID && m.Opcode == OpDisplaySync:
		cb := d.Object()
		c.Send(NewEvent(cb, EvCallbackDone).Uint(0))
		c.Send(NewEvent(DisplayID, EvDisplayDeleteID).Object(cb))
	case m.Sender == DisplayID && m.Opcode == OpDisplayGetRegistry:
		reg := d.Object()
		c.mu.Lock()
		c.registry = reg
		c.mu.Unlock()
		for _, g := range c.globals {
			c.Send(NewEvent(reg, EvRegistryGlobal).Uint(g.Name).String(g.Interface).Uint(g.Version))
		}
	case registry != 0 && m.Sender == registry && m.Opcode == OpRegistryBind:
		name := d.Uint()
		iface := d.String()
		_ = d.Uint()
		id := d.Object()
		c.mu.Lock()
		c.bound[iface] = append(c.bound[iface], id)
		mode, hasMode := c.modes[name]
		c.mu.Unlock()
		c.onBind(iface, id, mode, hasMode)
	}
}

func (c *Compositor) onBind(iface string, id wayland.ObjectID, mode Mode, hasMode bool) {
	switch iface {
	case "wl_output":
		if hasMode {
			c.Send(NewEvent(id, EvOutputMode).Uint(wayland.OutputModePreferred).Int(640).Int(480).Int(60000))
			c.Send(NewEvent(id, EvOutputMode).Uint(wayland.OutputModeCurrent).Int(mode.Width).Int(mode.Height).Int(60000))
		}
		c.Send(NewEvent(id, EvOutputDone))
	case "wl_shm":
		c.Send(NewEvent(id, EvShmFormat).Uint(wayland.ShmFormatARGB8888))
		c.Send(NewEvent(id, EvShmFormat).Uint(wayland.ShmFormatXRGB8888))
	case "wl_seat":
		c.Send(NewEvent(id, EvSeatCapabilities).Uint(wayland.SeatCapabilityKeyboard | wayland.SeatCapabilityPointer))
	}
}

// Send writes an event to the client. It waits for the client to connect.
func (c *Compositor) Send(e *Event) {
	<-c.accepted
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.conn == nil {
		return
	}
	_, _ = c.conn.Write(e.bytes())
}

// Hangup drops the client connection.
func (c *Compositor) Hangup() {
	<-c.accepted
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Registry is the client's wl_registry, or zero before get_registry.
func (c *Compositor) Registry() wayland.ObjectID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry
}

// Bound returns the objects bound for iface in bind order.
func (c *Compositor) Bound(iface string) []wayland.ObjectID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]wayland.ObjectID(nil), c.bound[iface]...)
}

// BoundOne returns the first object bound for iface, or zero.
func (c *Compositor) BoundOne(iface string) wayland.ObjectID {
	if ids := c.Bound(iface); len(ids) > 0 {
		return ids[0]
	}
	return 0
}

// Sent returns every request received so far.
func (c *Compositor) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.sent...)
}

// Requests returns the received requests addressed to object with opcode.
func (c *Compositor) Requests(object wayland.ObjectID, opcode uint16) []Message {
	var out []Message
	for _, m := range c.Sent() {
		if m.Sender == object && m.Opcode == opcode {
			out = append(out, m)
		}
	}
	return out
}

// Reset forgets the recorded requests.
func (c *Compositor) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}
