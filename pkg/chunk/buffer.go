// pkg/chunk/buffer.go

package chunk

// Buffer holds the pages a worker has read but not yet flushed. It is owned by
// a single worker and is not safe for concurrent use.
type Buffer struct {
	capacity int
	expected int64
	used     int64
	pages    []*Page
}

// NewBuffer creates a buffer that is full once it holds limit pages. expected
// is the total number of pages the owner is going to add; the page list is
// sized by it rather than by limit when it is smaller.
func NewBuffer(limit int, expected int64) *Buffer {
	if limit < 1 {
		limit = 1
	}
	return &Buffer{
		capacity: limit,
		expected: expected,
	}
}

// Add appends p and reports whether the buffer reached its limit.
func (b *Buffer) Add(p *Page) bool {
	if b.pages == nil {
		b.pages = make([]*Page, 0, b.fill())
	}
	b.pages = append(b.pages, p)
	b.used += int64(cap(p.Data))
	return b.Full()
}

// Full reports whether the buffer holds as many pages as its limit.
func (b *Buffer) Full() bool {
	return len(b.pages) >= b.capacity
}

// Len returns the number of buffered pages.
func (b *Buffer) Len() int {
	return len(b.pages)
}

// Limit returns the page count at which the buffer is full.
func (b *Buffer) Limit() int {
	return b.capacity
}

// UsedMemory returns the bytes held by buffered pages.
func (b *Buffer) UsedMemory() int64 {
	return b.used
}

// fill returns how many pages the next batch is going to hold.
func (b *Buffer) fill() int {
	n := int64(b.capacity)
	if b.expected < n {
		n = b.expected
	}
	if n < 1 {
		return 1
	}
	return int(n)
}

// Take hands the buffered pages over to the caller and leaves the buffer empty.
func (b *Buffer) Take() []*Page {
	pages := b.pages
	b.pages = nil
	b.expected -= int64(len(pages))
	b.used = 0
	return pages
}

// Release drops every buffered page.
func (b *Buffer) Release() {
	for _, p := range b.Take() {
		p.Release()
	}
}
