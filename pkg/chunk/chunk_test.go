package chunk

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PageSplit/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	assert.Equal(t, "chunk.worker-0.0", Name(0, 0))
	assert.Equal(t, "chunk.worker-12.345", Name(12, 345))
}

func TestMemoryLimit(t *testing.T) {
	tests := []struct {
		budget   int64
		fraction float64
		want     int
	}{
		{1 << 30, 0.20, 52428},
		{16 * PageSize, 0.5, 8},
		{16 * PageSize, 1, 16},
		{PageSize, 0.20, 1},
		{0, 0.20, 1},
		{10 * PageSize, 0.25, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MemoryLimit(tt.budget, tt.fraction), "budget=%d fraction=%v", tt.budget, tt.fraction)
	}
}

func TestReadPage(t *testing.T) {
	path, data := writeSource(t, 4)
	r, err := NewPageReader(path, false)
	require.NoError(t, err)
	defer r.Close()

	assert.EqualValues(t, len(data), r.Size())
	assert.False(t, r.Direct())

	for i := int64(3); i >= 0; i-- {
		p, err := r.ReadPage(i)
		require.NoError(t, err)
		assert.Equal(t, i, p.Index)
		assert.Equal(t, i*PageSize, p.Offset())
		assert.Equal(t, data[i*PageSize:(i+1)*PageSize], p.Data)
		p.Release()
		assert.Nil(t, p.Data)
	}
}

func TestReadPageDirect(t *testing.T) {
	path, data := writeSource(t, 2)
	// falls back to buffered reads on file systems without O_DIRECT
	r, err := NewPageReader(path, true)
	require.NoError(t, err)
	defer r.Close()

	p, err := r.ReadPage(1)
	require.NoError(t, err)
	defer p.Release()
	assert.Equal(t, data[PageSize:], p.Data)
}

func TestReadPageShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, PageSize+100), 0644))
	r, err := NewPageReader(path, false)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadPage(1)
	var short *ShortReadError
	require.True(t, errors.As(err, &short), "got %v", err)
	assert.Equal(t, 100, short.Size)
	assert.EqualValues(t, PageSize, short.Offset)
	assert.Contains(t, err.Error(), "size 100 != 4096")
	assert.Contains(t, err.Error(), "offset 4096")

	_, err = r.ReadPage(5)
	require.True(t, errors.As(err, &short))
	assert.Equal(t, 0, short.Size)
}

func TestNewPageReaderMissing(t *testing.T) {
	_, err := NewPageReader(filepath.Join(t.TempDir(), "missing"), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuffer(t *testing.T) {
	b := NewBuffer(2, 3)
	assert.Equal(t, 2, b.Limit())
	assert.False(t, b.Add(NewPage(0, make([]byte, PageSize))))
	assert.Equal(t, 1, b.Len())
	assert.True(t, b.Add(NewPage(1, make([]byte, PageSize))))
	assert.EqualValues(t, 2*PageSize, b.UsedMemory())

	pages := b.Take()
	require.Len(t, pages, 2)
	assert.Equal(t, int64(0), pages[0].Index)
	assert.Equal(t, int64(1), pages[1].Index)
	assert.Equal(t, 0, b.Len())
	assert.Zero(t, b.UsedMemory())
	assert.False(t, b.Full())

	b.Add(NewOffPage(2, PageSize))
	b.Release()
	assert.Equal(t, 0, b.Len())

	assert.Equal(t, 1, NewBuffer(0, 0).Limit())
}

func TestBufferSizedByExpectedPages(t *testing.T) {
	b := NewBuffer(1<<24, 1)
	assert.False(t, b.Add(NewPage(0, make([]byte, PageSize))))
	pages := b.Take()
	require.Len(t, pages, 1)
	assert.Equal(t, 1, cap(pages))

	// an empty buffer gives up nothing and allocates nothing
	allocs := testing.AllocsPerRun(10, func() {
		b.Release()
		_ = b.Take()
	})
	assert.Zero(t, allocs)

	b = NewBuffer(3, 7)
	var caps []int
	for i := 0; i < 7; i++ {
		if b.Add(NewPage(int64(i), nil)) || i == 6 {
			caps = append(caps, cap(b.Take()))
		}
	}
	assert.Equal(t, []int{3, 3, 1}, caps)
}

func TestReaderReserve(t *testing.T) {
	path, data := writeSource(t, 4)
	before := utils.AllocMemory()

	r, err := NewPageReader(path, false)
	require.NoError(t, err)
	r.Reserve(3)
	assert.Equal(t, before+3*PageSize, utils.AllocMemory())

	var pages []*Page
	for i := int64(0); i < 4; i++ {
		p, err := r.ReadPage(i)
		require.NoError(t, err)
		assert.Equal(t, data[i*PageSize:(i+1)*PageSize], p.Data)
		pages = append(pages, p)
	}
	// the first three pages share the reserved block, the fourth has its own
	assert.Same(t, pages[0].slab, pages[2].slab)
	assert.NotSame(t, pages[0].slab, pages[3].slab)
	assert.Equal(t, before+4*PageSize, utils.AllocMemory())

	// the block stays mapped until its last page is released
	pages[0].Release()
	pages[1].Release()
	pages[3].Release()
	assert.Equal(t, before+3*PageSize, utils.AllocMemory())
	pages[2].Release()
	assert.Equal(t, before, utils.AllocMemory())

	r.Reserve(2)
	p, err := r.ReadPage(1)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, before+2*PageSize, utils.AllocMemory())
	p.Release()
	assert.Equal(t, before, utils.AllocMemory())
}

func TestPagesReader(t *testing.T) {
	a := NewPage(0, []byte("hello "))
	b := NewPage(1, []byte("world"))
	r := newPagesReader([]*Page{a, b})

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
	require.NoError(t, r.Close())

	// the reader only dropped its own references
	assert.NotNil(t, a.Data)
	a.Release()
	b.Release()
	assert.Nil(t, a.Data)
	assert.Nil(t, b.Data)
}

func TestWriterFlush(t *testing.T) {
	path, data := writeSource(t, 5)
	r, err := NewPageReader(path, false)
	require.NoError(t, err)
	defer r.Close()

	dir := t.TempDir()
	w := NewWriter(WriterConfig{Worker: 3, Dir: dir, Fsync: true})

	read := func(from, to int64) []*Page {
		var pages []*Page
		for i := from; i <= to; i++ {
			p, err := r.ReadPage(i)
			require.NoError(t, err)
			pages = append(pages, p)
		}
		return pages
	}

	name, err := w.Flush(read(0, 2))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chunk.worker-3.0"), name)
	name, err = w.Flush(read(3, 4))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chunk.worker-3.1"), name)
	assert.Equal(t, 2, w.Sequence())
	assert.EqualValues(t, len(data), w.Written())

	var joined bytes.Buffer
	for seq := 0; seq < 2; seq++ {
		b, err := os.ReadFile(filepath.Join(dir, Name(3, seq)))
		require.NoError(t, err)
		joined.Write(b)
	}
	assert.Equal(t, data, joined.Bytes())
}

func TestWriterTruncates(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, Name(0, 0))
	require.NoError(t, os.WriteFile(name, bytes.Repeat([]byte{9}, 3*PageSize), 0644))

	w := NewWriter(WriterConfig{Dir: dir})
	_, err := w.Flush([]*Page{NewPage(0, bytes.Repeat([]byte{1}, PageSize))})
	require.NoError(t, err)

	got, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{1}, PageSize), got)
}

func TestWriterOpenFailure(t *testing.T) {
	w := NewWriter(WriterConfig{Dir: filepath.Join(t.TempDir(), "missing")})
	p := NewPage(0, make([]byte, PageSize))
	_, err := w.Flush([]*Page{p})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open chunk")
	assert.Nil(t, p.Data)
	assert.Equal(t, 1, w.Sequence())
}

func TestWriterLimit(t *testing.T) {
	assert.Nil(t, NewLimit(0))

	dir := t.TempDir()
	// the bucket starts full, so the second page has to wait for refill
	w := NewWriter(WriterConfig{Dir: dir, Limit: NewLimit(20 * PageSize)})
	start := time.Now()
	_, err := w.Flush([]*Page{
		NewPage(0, make([]byte, 20*PageSize)),
		NewPage(1, make([]byte, 2*PageSize)),
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.EqualValues(t, 22*PageSize, w.Written())
}
