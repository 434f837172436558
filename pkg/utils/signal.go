// pkg/utils/signal.go

package utils

import (
	"sync"
	"time"
)

// Signal is a level-triggered wake-up: Notify never blocks and any number of
// notifications before a Wait collapse into one.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify wakes up a waiter.
func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

var timerPool = sync.Pool{
	New: func() interface{} {
		return time.NewTimer(time.Second)
	},
}

// WaitWithTimeout waits for a notification or until d has elapsed.
// returns true in case of timeout else false
func (s *Signal) WaitWithTimeout(d time.Duration) bool {
	t := timerPool.Get().(*time.Timer)
	t.Reset(d)
	defer func() {
		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		timerPool.Put(t)
	}()
	select {
	case <-s.ch:
		return false
	case <-t.C:
		return true
	}
}
