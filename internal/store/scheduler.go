package store

import (
	"sync"
	"time"
)

// TimerHandle cancels a scheduled callback. Stopping an already-stopped
// or already-fired handle is a no-op.
type TimerHandle interface {
	Stop()
}

// Scheduler abstracts time for the store. Every timer the store owns
// (agent idle-resets, toast dismissal, the heartbeat) goes through it, so
// tests can substitute a manual clock and fast-forward deterministically
// instead of sleeping.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) TimerHandle
	Every(d time.Duration, fn func()) TimerHandle
}

// SystemScheduler is the production Scheduler backed by the runtime
// clock.
type SystemScheduler struct{}

// Now returns the wall-clock time.
func (SystemScheduler) Now() time.Time { return time.Now() }

// After runs fn once after d.
func (SystemScheduler) After(d time.Duration, fn func()) TimerHandle {
	return &timerHandle{t: time.AfterFunc(d, fn)}
}

// Every runs fn repeatedly with period d until the handle is stopped.
func (SystemScheduler) Every(d time.Duration, fn func()) TimerHandle {
	h := &tickerHandle{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-h.done:
				return
			}
		}
	}()
	return h
}

type timerHandle struct {
	t *time.Timer
}

func (h *timerHandle) Stop() { h.t.Stop() }

type tickerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *tickerHandle) Stop() { h.once.Do(func() { close(h.done) }) }
