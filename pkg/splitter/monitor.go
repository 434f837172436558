// pkg/splitter/monitor.go

package splitter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"PageSplit/pkg/utils"

	"github.com/vbauerster/mpb/v8"
)

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	Interval time.Duration
	Progress func() []float64
	Wake     *utils.Signal // polls early when notified
	Bars     bool
	Log      utils.Logger
}

// Monitor polls the progress of all workers until every one reports 100.
// There is no stall detection: a worker that never finishes is polled forever.
type Monitor struct {
	conf MonitorConfig
	p    *mpb.Progress
	bars []*mpb.Bar
}

// NewMonitor creates a Monitor.
func NewMonitor(conf MonitorConfig) *Monitor {
	if conf.Interval <= 0 {
		conf.Interval = time.Second
	}
	if conf.Wake == nil {
		conf.Wake = utils.NewSignal()
	}
	if conf.Log == nil {
		conf.Log = logger
	}
	return &Monitor{conf: conf}
}

// Run returns nil once all workers are done, or the context error.
func (m *Monitor) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, m.conf.Wake.Notify)
	defer stop()

	for {
		progress := m.conf.Progress()
		m.conf.Log.Infof("Progress: %s", formatProgress(progress))
		m.draw(progress)

		if allDone(progress) {
			m.finish(false)
			return nil
		}
		if err := ctx.Err(); err != nil {
			m.finish(true)
			return err
		}
		m.conf.Wake.WaitWithTimeout(m.conf.Interval)
	}
}

func (m *Monitor) draw(progress []float64) {
	if !m.conf.Bars {
		return
	}
	if m.p == nil {
		m.p = utils.NewProgress(false)
		for i := range progress {
			m.bars = append(m.bars, utils.NewPercentBar(m.p, fmt.Sprintf("worker %d", i)))
		}
	}
	for i, bar := range m.bars {
		if i < len(progress) {
			bar.SetCurrent(int64(progress[i]))
		}
	}
}

func (m *Monitor) finish(abort bool) {
	if m.p == nil {
		return
	}
	for _, bar := range m.bars {
		if abort {
			bar.Abort(false)
		} else {
			bar.SetCurrent(100)
		}
	}
	m.p.Wait()
}

func formatProgress(progress []float64) string {
	parts := make([]string, len(progress))
	for i, p := range progress {
		parts[i] = fmt.Sprintf("%.1f", p)
	}
	return strings.Join(parts, " ")
}

func allDone(progress []float64) bool {
	for _, p := range progress {
		if p != 100.0 {
			return false
		}
	}
	return true
}
