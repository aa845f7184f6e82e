package shm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Region is a shared memory mapping backed by a file descriptor the
// compositor can map too.
type Region interface {
	Bytes() []byte
	Fd() int
	Close() error
}

// Allocator creates regions.
type Allocator interface {
	Allocate(size int) (Region, error)
}

// MemfdAllocator allocates anonymous memfd-backed regions.
type MemfdAllocator struct {
	Name string
}

func (a MemfdAllocator) Allocate(size int) (Region, error) {
	name := a.Name
	if name == "" {
		name = "wlview-shm"
	}
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("ftruncate %d bytes: %w", size, err)
	}
	// The compositor maps the same file; forbid shrinking it underneath.
	_, _ = unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK|unix.F_SEAL_SEAL)

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return &memfdRegion{fd: fd, data: data}, nil
}

type memfdRegion struct {
	fd   int
	data []byte
}

func (r *memfdRegion) Bytes() []byte { return r.data }
func (r *memfdRegion) Fd() int       { return r.fd }

func (r *memfdRegion) Close() error {
	var first error
	if r.data != nil {
		if err := unix.Munmap(r.data); err != nil {
			first = fmt.Errorf("munmap: %w", err)
		}
		r.data = nil
	}
	if r.fd >= 0 {
		if err := unix.Close(r.fd); err != nil && first == nil {
			first = err
		}
		r.fd = -1
	}
	return first
}
