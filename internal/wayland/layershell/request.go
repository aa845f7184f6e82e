package layershell

import (
	"github.com/yaslama/go-wayland/wayland/client"
)

// request encodes one outgoing message. The size half of the second header
// word is filled in by send.
type request struct {
	buf    []byte
	opcode uint32
}

func newRequest(sender client.Proxy, opcode uint32) *request {
	r := &request{buf: make([]byte, 8, 32), opcode: opcode}
	client.PutUint32(r.buf[0:4], sender.ID())
	return r
}

func (r *request) uint(v uint32) {
	r.buf = append(r.buf, 0, 0, 0, 0)
	client.PutUint32(r.buf[len(r.buf)-4:], v)
}

func (r *request) object(p client.Proxy) {
	r.uint(p.ID())
}

// string appends a NUL-terminated string padded to four bytes.
func (r *request) string(s string) {
	n := len(s) + 1
	r.uint(uint32(n))
	start := len(r.buf)
	r.buf = append(r.buf, make([]byte, client.PaddedLen(n))...)
	copy(r.buf[start:], s)
}

func (r *request) send(ctx *client.Context) error {
	client.PutUint32(r.buf[4:8], uint32(len(r.buf))<<16|r.opcode&0xffff)
	return ctx.WriteMsg(r.buf, nil)
}
