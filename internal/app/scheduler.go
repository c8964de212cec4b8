package app

import (
	"sync"
	"time"
)

// Timer is a handle to deferred work. Stop is idempotent and never waits for a running callback.
type Timer interface {
	Stop()
}

// Scheduler is the only source of deferred execution for a Controller.
type Scheduler interface {
	// Every runs fn once per interval until the returned Timer is stopped.
	Every(interval time.Duration, fn func()) Timer
	// After runs fn once after delay unless the returned Timer is stopped first.
	After(delay time.Duration, fn func()) Timer
}

type stopFunc func()

func (f stopFunc) Stop() { f() }

type clockScheduler struct{}

// NewScheduler returns a Scheduler backed by wall-clock timers.
func NewScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) Every(interval time.Duration, fn func()) Timer {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				// Stop may race with a tick that is already buffered.
				select {
				case <-done:
					return
				default:
				}
				fn()
			case <-done:
				return
			}
		}
	}()

	return stopFunc(func() {
		once.Do(func() { close(done) })
	})
}

func (clockScheduler) After(delay time.Duration, fn func()) Timer {
	t := time.AfterFunc(delay, fn)
	return stopFunc(func() { t.Stop() })
}
