// pkg/chunk/page.go

package chunk

import (
	"io"
	"sync/atomic"

	"github.com/pkg/errors"
)

// PageSize is the unit of every read, and the alignment of buffers and
// offsets used for direct I/O.
const PageSize = 4096

type Page struct {
	refs  int32
	slab  *slab
	Index int64
	Data  []byte
}

// NewPage create a new page.
func NewPage(index int64, data []byte) *Page {
	return &Page{refs: 1, Index: index, Data: data}
}

// NewOffPage allocates a page outside of the Go heap, aligned to the OS page.
func NewOffPage(index int64, size int) *Page {
	if size <= 0 {
		panic("size of page should > 0")
	}
	s := newSlab(size)
	page := s.cut(index, size)
	s.release()
	return page
}

// Offset returns the position of the page in its source file.
func (p *Page) Offset() int64 {
	return p.Index * PageSize
}

// Acquire increase the refcount
func (p *Page) Acquire() {
	atomic.AddInt32(&p.refs, 1)
}

// Release decreases the refcount
func (p *Page) Release() {
	if atomic.AddInt32(&p.refs, -1) == 0 {
		if p.slab != nil {
			p.slab.release()
			p.slab = nil
		}
		p.Data = nil
	}
}

// pagesReader streams the contents of a sequence of pages in order.
type pagesReader struct {
	pages []*Page
	off   int
}

func newPagesReader(pages []*Page) *pagesReader {
	for _, p := range pages {
		p.Acquire()
	}
	return &pagesReader{pages: pages}
}

func (r *pagesReader) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var n int
	for n < len(buf) && len(r.pages) > 0 {
		p := r.pages[0]
		if p.Data == nil {
			return n, errors.Errorf("page %d is already released", p.Index)
		}
		c := copy(buf[n:], p.Data[r.off:])
		n += c
		r.off += c
		if r.off == len(p.Data) {
			p.Release()
			r.pages = r.pages[1:]
			r.off = 0
		}
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (r *pagesReader) Close() error {
	for _, p := range r.pages {
		p.Release()
	}
	r.pages = nil
	return nil
}
