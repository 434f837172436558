// pkg/chunk/writer.go

package chunk

import (
	"io"
	"os"
	"path/filepath"

	"github.com/juju/ratelimit"
	"github.com/pkg/errors"
)

// WriterConfig configures the chunk files of one worker.
type WriterConfig struct {
	Worker int
	Dir    string
	Fsync  bool
	Limit  *ratelimit.Bucket
}

// Writer persists batches of pages into chunk.worker-<id>.<seq> files, with
// seq counting up from 0.
type Writer struct {
	conf    WriterConfig
	seq     int
	written int64
}

// NewWriter creates a writer for one worker.
func NewWriter(conf WriterConfig) *Writer {
	if conf.Dir == "" {
		conf.Dir = "."
	}
	return &Writer{conf: conf}
}

// Flush writes pages, in order, to the next chunk file and closes it. The
// writer takes ownership of the pages and releases them.
func (w *Writer) Flush(pages []*Page) (string, error) {
	defer func() {
		for _, p := range pages {
			p.Release()
		}
	}()

	name := filepath.Join(w.conf.Dir, Name(w.conf.Worker, w.seq))
	w.seq++

	out, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return name, errors.Wrapf(err, "open chunk %s", name)
	}

	src := newPagesReader(pages)
	defer src.Close()
	n, err := io.Copy(out, limited(src, w.conf.Limit))
	w.written += n
	if err != nil {
		_ = out.Close()
		return name, errors.Wrapf(err, "write chunk %s", name)
	}
	if w.conf.Fsync {
		if err = out.Sync(); err != nil {
			_ = out.Close()
			return name, errors.Wrapf(err, "sync chunk %s", name)
		}
	}
	if err = out.Close(); err != nil {
		return name, errors.Wrapf(err, "close chunk %s", name)
	}
	return name, nil
}

// Sequence returns the number of chunk files started so far, which is also
// the sequence number of the next one.
func (w *Writer) Sequence() int {
	return w.seq
}

// Written returns the bytes written to chunk files.
func (w *Writer) Written() int64 {
	return w.written
}
