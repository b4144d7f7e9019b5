package timer

import (
	"sync"
	"time"
)

// Scheduler runs fn every d until the returned stop function is called.
// Stop must be safe to call more than once.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// TickerScheduler drives callbacks from a time.Ticker goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}
