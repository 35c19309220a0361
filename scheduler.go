package xtoast

import "time"

// TimerScheduler runs scheduled functions on runtime timers.
type TimerScheduler struct{}

// AfterFunc runs f on its own goroutine once d has elapsed.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

var _ Scheduler = TimerScheduler{}
