// pkg/chunk/slab.go

package chunk

import (
	"runtime"
	"sync/atomic"

	"PageSplit/pkg/utils"
)

// slab is a single off-heap allocation that pages are cut from. Every page
// holds a reference on it, and so does its creator until it calls release.
// The memory is unmapped when the last reference is dropped.
type slab struct {
	refs int32
	next int
	data []byte
}

func newSlab(size int) *slab {
	s := &slab{refs: 1, data: utils.Alloc(size)}
	runtime.SetFinalizer(s, func(s *slab) {
		refCnt := atomic.LoadInt32(&s.refs)
		if refCnt != 0 {
			logger.Errorf("refcount of slab %p (%d bytes) is not zero: %d", s, len(s.data), refCnt)
			if refCnt > 0 {
				atomic.StoreInt32(&s.refs, 0)
				utils.Free(s.data)
			}
		}
	})
	return s
}

// cut hands out the next size bytes as a page, or nil when fewer than size
// bytes are left.
func (s *slab) cut(index int64, size int) *Page {
	if s.next+size > len(s.data) {
		return nil
	}
	data := s.data[s.next : s.next+size : s.next+size]
	s.next += size
	atomic.AddInt32(&s.refs, 1)
	return &Page{refs: 1, slab: s, Index: index, Data: data}
}

func (s *slab) release() {
	if atomic.AddInt32(&s.refs, -1) == 0 {
		utils.Free(s.data)
		s.data = nil
	}
}
