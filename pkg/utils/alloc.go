// pkg/utils/alloc.go

package utils

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var used int64

// Alloc returns size bytes of off-heap memory. The mapping always starts at an
// OS page boundary so the memory is usable as a direct I/O buffer.
func Alloc(size int) []byte {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		panic(err)
	}
	atomic.AddInt64(&used, int64(size))
	return b
}

// Free releases memory returned by Alloc.
func Free(b []byte) {
	atomic.AddInt64(&used, -int64(cap(b)))
	_ = unix.Munmap(b)
}

// AllocMemory returns the amount of off-heap memory currently held.
func AllocMemory() int64 {
	return atomic.LoadInt64(&used)
}
