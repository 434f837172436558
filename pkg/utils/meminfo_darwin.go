// pkg/utils/meminfo_darwin.go

package utils

import "golang.org/x/sys/unix"

// TotalMemory returns the physical memory of the machine in bytes.
func TotalMemory() uint64 {
	n, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return n
}
