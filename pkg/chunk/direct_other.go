//go:build !linux && !darwin

// pkg/chunk/direct_other.go

package chunk

import "os"

func openFile(path string, direct bool) (*os.File, bool, error) {
	f, err := os.Open(path)
	return f, false, err
}
