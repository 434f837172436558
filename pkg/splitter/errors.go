// pkg/splitter/errors.go

package splitter

import (
	"errors"
	"fmt"

	"PageSplit/pkg/chunk"
)

var (
	// ErrWorkerStopped is returned by Start once Stop has been called.
	ErrWorkerStopped = errors.New("splitter: worker is stopped")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("splitter: worker is already started")
)

// ConfigurationError reports an input that cannot be split. It is raised
// before any worker is created.
type ConfigurationError struct {
	Path     string
	Size     int64
	PageSize int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("input file %s size %d must be a multiple of page size %d", e.Path, e.Size, e.PageSize)
}

// ShortReadError is the error of a page read returning less than a full page.
type ShortReadError = chunk.ShortReadError
