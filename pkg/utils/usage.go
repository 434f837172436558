// pkg/utils/usage.go

package utils

import (
	"syscall"
	"time"
)

var started = time.Now()

// Clock returns the time elapsed since the process started.
func Clock() time.Duration {
	return time.Since(started)
}

// Usage is a snapshot of wall clock and CPU time consumed by the process.
type Usage struct {
	Wall   time.Duration
	User   time.Duration
	System time.Duration
}

func timeval(tv syscall.Timeval) time.Duration {
	return time.Duration(tv.Sec)*time.Second + time.Duration(tv.Usec)*time.Microsecond
}

// GetUsage returns the current resource usage of the process.
func GetUsage() Usage {
	var ru syscall.Rusage
	_ = syscall.Getrusage(syscall.RUSAGE_SELF, &ru)
	return Usage{
		Wall:   Clock(),
		User:   timeval(ru.Utime),
		System: timeval(ru.Stime),
	}
}

// Sub returns the usage accumulated between prev and u.
func (u Usage) Sub(prev Usage) Usage {
	return Usage{
		Wall:   u.Wall - prev.Wall,
		User:   u.User - prev.User,
		System: u.System - prev.System,
	}
}
