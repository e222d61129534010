package game

import "time"

// Scheduler runs fn once after d. Implementations must not run fn inline
// while the caller still holds the session lock; TimerScheduler uses its own
// goroutine and the test scheduler queues callbacks until flushed.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler schedules callbacks on time.AfterFunc
type TimerScheduler struct{}

// After implements Scheduler
func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
