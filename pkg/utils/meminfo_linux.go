// pkg/utils/meminfo_linux.go

package utils

import "golang.org/x/sys/unix"

// TotalMemory returns the physical memory of the machine in bytes.
func TotalMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
