// pkg/chunk/reader.go

package chunk

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ShortReadError reports a page read that returned fewer than PageSize bytes.
// Short reads are not retried.
type ShortReadError struct {
	Size   int
	Offset int64
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("short read with size %d != %d occurred at offset %d", e.Size, PageSize, e.Offset)
}

// PageReader reads aligned pages from a read-only file handle.
type PageReader struct {
	path   string
	file   *os.File
	size   int64
	direct bool
	slab   *slab
}

// NewPageReader opens path read-only. With direct set it bypasses the page
// cache where the platform and file system allow it, and falls back to
// buffered reads otherwise.
func NewPageReader(path string, direct bool) (*PageReader, error) {
	f, direct, err := openFile(path, direct)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if direct {
		logger.Debugf("opened %s with direct I/O", path)
	}
	return &PageReader{path: path, file: f, size: st.Size(), direct: direct}, nil
}

// Size returns the size of the file in bytes.
func (r *PageReader) Size() int64 {
	return r.size
}

// Direct reports whether reads bypass the page cache.
func (r *PageReader) Direct() bool {
	return r.direct
}

// Reserve sets aside one aligned block for the next n page reads, so that a
// whole chunk costs a single allocation. Space left over from an earlier
// reservation is given up.
func (r *PageReader) Reserve(n int) {
	r.dropSlab()
	if n > 0 {
		r.slab = newSlab(n * PageSize)
	}
}

func (r *PageReader) dropSlab() {
	if r.slab != nil {
		r.slab.release()
		r.slab = nil
	}
}

// nextPage returns a page for index from the reserved block, or a page of its
// own once the block is used up.
func (r *PageReader) nextPage(index int64) *Page {
	if r.slab != nil {
		if p := r.slab.cut(index, PageSize); p != nil {
			return p
		}
		r.dropSlab()
	}
	return NewOffPage(index, PageSize)
}

// ReadPage reads page index with a single positioned read into an aligned
// buffer. The returned page is owned by the caller.
func (r *PageReader) ReadPage(index int64) (*Page, error) {
	p := r.nextPage(index)
	off := p.Offset()
	n, err := unix.Pread(int(r.file.Fd()), p.Data, off)
	if err != nil {
		p.Release()
		return nil, errors.Wrapf(err, "read %s at offset %d", r.path, off)
	}
	if n != PageSize {
		p.Release()
		return nil, &ShortReadError{Size: n, Offset: off}
	}
	return p, nil
}

// Close gives up any reserved space and closes the file handle.
func (r *PageReader) Close() error {
	r.dropSlab()
	return r.file.Close()
}
