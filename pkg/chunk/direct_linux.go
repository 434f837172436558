// pkg/chunk/direct_linux.go

package chunk

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func openFile(path string, direct bool) (*os.File, bool, error) {
	if direct {
		f, err := os.OpenFile(path, os.O_RDONLY|unix.O_DIRECT, 0)
		if err == nil {
			return f, true, nil
		}
		// tmpfs and some FUSE file systems refuse O_DIRECT
		if !errors.Is(err, syscall.EINVAL) {
			return nil, false, err
		}
		logger.Warnf("direct I/O is not supported for %s, using buffered reads", path)
	}
	f, err := os.Open(path)
	return f, false, err
}
