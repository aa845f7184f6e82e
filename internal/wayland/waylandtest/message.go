package waylandtest

import (
	"encoding/binary"

	"github.com/1broseidon/wlview/internal/wayland"
)

const headerSize = 8

// Message is one request received from the client.
type Message struct {
	Sender wayland.ObjectID
	Opcode uint16
	Args   []byte
}

// Event builds one message for the client.
type Event struct {
	buf []byte
}

// NewEvent starts an event with opcode from sender.
func NewEvent(sender wayland.ObjectID, opcode uint16) *Event {
	e := &Event{buf: make([]byte, headerSize, 64)}
	binary.NativeEndian.PutUint32(e.buf[0:4], uint32(sender))
	binary.NativeEndian.PutUint32(e.buf[4:8], uint32(opcode))
	return e
}

func (e *Event) Uint(v uint32) *Event {
	e.buf = binary.NativeEndian.AppendUint32(e.buf, v)
	return e
}

func (e *Event) Int(v int32) *Event {
	return e.Uint(uint32(v))
}

func (e *Event) Object(id wayland.ObjectID) *Event {
	return e.Uint(uint32(id))
}

// String appends a NUL-terminated, padded string.
func (e *Event) String(s string) *Event {
	n := len(s) + 1
	e.Uint(uint32(n))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, make([]byte, padded(n)-len(s))...)
	return e
}

// Array appends a length-prefixed, padded byte array.
func (e *Event) Array(b []byte) *Event {
	e.Uint(uint32(len(b)))
	e.buf = append(e.buf, b...)
	e.buf = append(e.buf, make([]byte, padded(len(b))-len(b))...)
	return e
}

func (e *Event) bytes() []byte {
	word := binary.NativeEndian.Uint32(e.buf[4:8])
	binary.NativeEndian.PutUint32(e.buf[4:8], uint32(len(e.buf))<<16|word&0xffff)
	return e.buf
}

func padded(n int) int {
	return (n + 3) &^ 3
}

// Decoder reads request arguments in order. Reads past the end return zero
// values.
type Decoder struct {
	args []byte
}

func NewDecoder(m Message) *Decoder {
	return &Decoder{args: m.Args}
}

func (d *Decoder) Uint() uint32 {
	if len(d.args) < 4 {
		d.args = nil
		return 0
	}
	v := binary.NativeEndian.Uint32(d.args)
	d.args = d.args[4:]
	return v
}

func (d *Decoder) Int() int32 {
	return int32(d.Uint())
}

func (d *Decoder) Object() wayland.ObjectID {
	return wayland.ObjectID(d.Uint())
}

func (d *Decoder) String() string {
	n := int(d.Uint())
	if n == 0 || padded(n) > len(d.args) {
		d.args = nil
		return ""
	}
	s := string(d.args[:n-1])
	d.args = d.args[padded(n):]
	return s
}

// parseHeader splits the first message off buf. ok is false until a whole
// message is buffered.
func parseHeader(buf []byte) (m Message, size int, ok bool) {
	if len(buf) < headerSize {
		return Message{}, 0, false
	}
	word := binary.NativeEndian.Uint32(buf[4:8])
	size = int(word >> 16)
	if size < headerSize || len(buf) < size {
		return Message{}, 0, false
	}
	return Message{
		Sender: wayland.ObjectID(binary.NativeEndian.Uint32(buf[0:4])),
		Opcode: uint16(word),
		Args:   append([]byte(nil), buf[headerSize:size]...),
	}, size, true
}
