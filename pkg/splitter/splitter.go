// pkg/splitter/splitter.go

package splitter

import (
	"context"
	"errors"
	"os"

	"PageSplit/pkg/chunk"
	"PageSplit/pkg/config"
	"PageSplit/pkg/partition"
	"PageSplit/pkg/utils"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	perrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var logger = utils.GetLogger("splitter")

// Splitter owns one Worker per partition of the input and fans lifecycle and
// progress calls out to all of them.
type Splitter struct {
	conf       config.Config
	log        utils.Logger
	id         uuid.UUID
	size       int64
	totalPages int64
	workers    []*Worker
	wake       *utils.Signal
}

// New checks the input and plans the workers. An input whose size is not a
// multiple of the page size is rejected with a *ConfigurationError, before
// any worker exists or any output is created.
func New(conf config.Config, log utils.Logger) (*Splitter, error) {
	if log == nil {
		log = logger
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	st, err := os.Stat(conf.Input)
	if err != nil {
		return nil, perrors.Wrap(err, "stat input")
	}
	if st.IsDir() {
		return nil, perrors.Errorf("input %s is a directory", conf.Input)
	}
	size := st.Size()
	if size%chunk.PageSize != 0 {
		return nil, &ConfigurationError{Path: conf.Input, Size: size, PageSize: chunk.PageSize}
	}
	if err := os.MkdirAll(conf.OutputDir, 0755); err != nil {
		return nil, perrors.Wrap(err, "create output directory")
	}

	s := &Splitter{
		conf:       conf,
		log:        log,
		id:         uuid.New(),
		size:       size,
		totalPages: size / chunk.PageSize,
		wake:       utils.NewSignal(),
	}

	n := partition.Workers(s.totalPages, conf.Workers)
	if n != conf.Workers {
		log.Warnf("%d pages can not feed %d workers, using %d", s.totalPages, conf.Workers, n)
	}
	budget := conf.WorkerBudget(conf.Workers)
	for id := 0; id < n; id++ {
		s.workers = append(s.workers, NewWorker(WorkerConfig{
			ID:             id,
			Workers:        n,
			Path:           conf.Input,
			TotalPages:     s.totalPages,
			MemoryBudget:   budget,
			MemoryFraction: conf.MemoryFraction(),
			OutputDir:      conf.OutputDir,
			DirectIO:       conf.DirectIO,
			Fsync:          conf.Fsync,
			WriteLimit:     conf.WriteLimit,
			Log:            log,
			OnExit:         s.wake.Notify,
		}))
	}
	log.Infof("Split %s (%s, %d pages) with %d workers, run %s, buffering up to %s per worker",
		conf.Input, humanize.IBytes(uint64(size)), s.totalPages, n, s.id,
		humanize.IBytes(uint64(s.workers[0].Limit())*chunk.PageSize))
	return s, nil
}

// RunID identifies this run in logs.
func (s *Splitter) RunID() uuid.UUID {
	return s.id
}

// TotalPages returns the number of pages of the input.
func (s *Splitter) TotalPages() int64 {
	return s.totalPages
}

// Workers returns the workers ordered by id.
func (s *Splitter) Workers() []*Worker {
	return s.workers
}

// Start starts every worker. If one fails to start, the ones already running
// are stopped.
func (s *Splitter) Start(ctx context.Context) error {
	for i, w := range s.workers {
		if err := w.Start(ctx); err != nil {
			s.log.Errorf("worker %d failed to start: %s", w.ID(), err)
			for _, started := range s.workers[:i] {
				_ = started.Stop()
			}
			return err
		}
	}
	return nil
}

// Stop stops every worker and returns their errors.
func (s *Splitter) Stop() error {
	errs := make([]error, len(s.workers))
	var g errgroup.Group
	for i, w := range s.workers {
		i, w := i, w
		g.Go(func() error {
			errs[i] = w.Stop()
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Progress returns the progress of every worker, ordered by id.
func (s *Splitter) Progress() []float64 {
	progress := make([]float64, len(s.workers))
	for i, w := range s.workers {
		progress[i] = w.Progress()
	}
	return progress
}

// Run starts the workers, monitors them until all of them are done and stops
// them. The first worker error cancels monitoring and is returned.
func (s *Splitter) Run(ctx context.Context) error {
	before := utils.GetUsage()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// workers share the group context so that one failing worker stops the
	// others at their next chunk boundary
	g, gctx := errgroup.WithContext(ctx)
	if err := s.Start(gctx); err != nil {
		return err
	}
	for _, w := range s.workers {
		w := w
		g.Go(func() error {
			<-w.Done()
			return w.Err()
		})
	}
	monitor := NewMonitor(MonitorConfig{
		Interval: s.conf.Interval,
		Progress: s.Progress,
		Wake:     s.wake,
		Bars:     s.conf.Progress,
		Log:      s.log,
	})
	g.Go(func() error {
		return monitor.Run(gctx)
	})

	err := g.Wait()
	if serr := s.Stop(); err == nil {
		err = serr
	}
	if err != nil {
		return err
	}

	var chunks int
	var written int64
	for _, w := range s.workers {
		chunks += w.Chunks()
		written += w.Written()
	}
	used := utils.GetUsage().Sub(before)
	s.log.Infof("Wrote %s into %d chunks in %s (user %s, sys %s)",
		humanize.IBytes(uint64(written)), chunks, used.Wall, used.User, used.System)
	s.log.Debugf("Off-heap memory still mapped: %s", humanize.IBytes(uint64(utils.AllocMemory())))
	return nil
}
