// pkg/splitter/worker.go

package splitter

import (
	"context"
	"sync"
	"sync/atomic"

	"PageSplit/pkg/chunk"
	"PageSplit/pkg/partition"
	"PageSplit/pkg/utils"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle stage of a Worker.
type State int32

const (
	// Created means the range is planned and no I/O was issued.
	Created State = iota
	// Running means the read/flush loop runs in the background.
	Running
	// Draining means the loop has exited and is waiting to be joined.
	Draining
	// Stopped means the loop was joined and the file handle closed.
	Stopped
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// WorkerConfig describes the share of the input owned by one worker.
type WorkerConfig struct {
	ID             int
	Workers        int
	Path           string
	TotalPages     int64
	MemoryBudget   int64 // memory of this worker, in bytes
	MemoryFraction float64
	OutputDir      string
	DirectIO       bool
	Fsync          bool
	WriteLimit     int64
	Log            utils.Logger
	OnExit         func() // called once the loop has exited
}

// Worker copies one partition range of the input into chunk files.
type Worker struct {
	conf   WorkerConfig
	rng    partition.Range
	limit  int
	reader chunk.Reader
	writer *chunk.Writer

	mu       sync.Mutex
	closed   bool
	task     *errgroup.Group
	stopOnce sync.Once
	stopErr  error
	done     chan struct{}
	err      error

	state atomic.Int32

	// current is the next page to read. It is written by the loop only and
	// read by Progress without further synchronization; the value is advisory.
	current atomic.Int64
	chunks  atomic.Int64
}

// NewWorker plans the range of conf.ID. No file is opened until Start.
func NewWorker(conf WorkerConfig) *Worker {
	if conf.Log == nil {
		conf.Log = logger
	}
	w := &Worker{
		conf:  conf,
		rng:   partition.Plan(conf.TotalPages, conf.Workers, conf.ID),
		limit: chunk.MemoryLimit(conf.MemoryBudget, conf.MemoryFraction),
		done:  make(chan struct{}),
	}
	w.current.Store(w.rng.Start)
	return w
}

// ID returns the worker id.
func (w *Worker) ID() int {
	return w.conf.ID
}

// Range returns the pages owned by the worker.
func (w *Worker) Range() partition.Range {
	return w.rng
}

// Limit returns how many pages are buffered before a chunk is flushed.
func (w *Worker) Limit() int {
	return w.limit
}

// State returns the current lifecycle stage.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// Start opens the input and launches the read/flush loop in the background.
// The loop checks ctx between chunks, never in the middle of a read or write.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkerStopped
	}
	if w.task != nil {
		return ErrAlreadyStarted
	}

	reader, err := chunk.NewPageReader(w.conf.Path, w.conf.DirectIO)
	if err != nil {
		return err
	}
	w.reader = reader
	w.writer = chunk.NewWriter(chunk.WriterConfig{
		Worker: w.conf.ID,
		Dir:    w.conf.OutputDir,
		Fsync:  w.conf.Fsync,
		Limit:  chunk.NewLimit(w.conf.WriteLimit),
	})

	w.conf.Log.Infof("Processing %d pages with index %d to %d", w.rng.Len(), w.rng.Start, w.rng.End)

	w.state.Store(int32(Running))
	w.task = new(errgroup.Group)
	w.task.Go(func() error {
		err := w.run(ctx)
		if err != nil {
			w.conf.Log.Errorf("worker %d: %s", w.conf.ID, err)
		}
		w.err = err
		w.state.Store(int32(Draining))
		close(w.done)
		if w.conf.OnExit != nil {
			w.conf.OnExit()
		}
		return err
	})
	return nil
}

func (w *Worker) run(ctx context.Context) error {
	buf := chunk.NewBuffer(w.limit, w.rng.Len())
	defer buf.Release()

	for page := w.rng.Start; page <= w.rng.End; page++ {
		if buf.Len() == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			fill := w.rng.End - page + 1
			if fill > int64(w.limit) {
				fill = int64(w.limit)
			}
			w.reader.Reserve(int(fill))
		}

		p, err := w.reader.ReadPage(page)
		if err != nil {
			return err
		}
		w.current.Store(page + 1)

		// keep reading until we've reached the memory limit or last page
		if !buf.Add(p) && page != w.rng.End {
			continue
		}

		used := buf.UsedMemory()
		pages := buf.Take()
		w.conf.Log.Debugf("Dumping %d pages to file %s. Page buffering limit %d, %s buffered",
			len(pages), chunk.Name(w.conf.ID, w.writer.Sequence()), w.limit, humanize.IBytes(uint64(used)))
		if _, err := w.writer.Flush(pages); err != nil {
			return err
		}
		w.chunks.Add(1)
	}
	return nil
}

// Stop refuses further starts, waits for the loop to finish and closes the
// input. It returns the error the loop exited with. Calling Stop again
// returns the same result.
func (w *Worker) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		task := w.task
		w.mu.Unlock()

		if task != nil {
			w.stopErr = task.Wait()
			if err := w.reader.Close(); err != nil && w.stopErr == nil {
				w.stopErr = err
			}
		} else {
			close(w.done)
		}
		w.state.Store(int32(Stopped))
	})
	return w.stopErr
}

// Done is closed when the loop has exited, or when the worker is stopped
// without ever being started.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the error the loop exited with. It is only meaningful once Done
// is closed.
func (w *Worker) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Progress returns the percentage of the range read so far, and exactly 100
// once the worker is stopped or when the range is empty.
func (w *Worker) Progress() float64 {
	if w.State() == Stopped || w.rng.Empty() {
		return 100.0
	}
	read := w.current.Load() - w.rng.Start
	return float64(read) / float64(w.rng.Len()) * 100.0
}

// Chunks returns the number of chunk files written.
func (w *Worker) Chunks() int {
	return int(w.chunks.Load())
}

// Written returns the bytes written to chunk files.
func (w *Worker) Written() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writer == nil || w.State() != Stopped {
		return 0
	}
	return w.writer.Written()
}
