// pkg/chunk/direct_darwin.go

package chunk

import (
	"os"

	"golang.org/x/sys/unix"
)

func openFile(path string, direct bool) (*os.File, bool, error) {
	f, err := os.Open(path)
	if err != nil || !direct {
		return f, false, err
	}
	if _, err := unix.FcntlInt(f.Fd(), unix.F_NOCACHE, 1); err != nil {
		logger.Warnf("disable cache for %s: %s", path, err)
		return f, false, nil
	}
	return f, true, nil
}
