// pkg/chunk/chunk.go

// Package chunk reads fixed-size pages from a source file and persists
// batches of them as numbered chunk files.
package chunk

import (
	"fmt"

	"PageSplit/pkg/utils"
)

var logger = utils.GetLogger("chunk")

// Reader reads single pages by index. Reserve announces how many pages the
// following reads will return.
type Reader interface {
	Reserve(n int)
	ReadPage(index int64) (*Page, error)
	Close() error
}

// Name returns the file name of chunk seq written by worker.
func Name(worker, seq int) string {
	return fmt.Sprintf("chunk.worker-%d.%d", worker, seq)
}

// MemoryLimit returns how many pages fit into fraction of budget bytes. The
// result is never below one page so that every read can be flushed.
func MemoryLimit(budget int64, fraction float64) int {
	limit := int(float64(budget) * fraction / PageSize)
	if limit < 1 {
		return 1
	}
	return limit
}
