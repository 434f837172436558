//go:build !linux && !darwin

// pkg/utils/meminfo_other.go

package utils

// TotalMemory is unknown on this platform, callers must be configured with an
// explicit memory budget.
func TotalMemory() uint64 {
	return 0
}
