package session

import "time"

// Scheduler abstracts the once-per-second countdown tick so tests can drive
// time manually. Schedule runs fn once after d and returns a cancel func;
// cancelling after fn has started is a no-op.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

type realScheduler struct{}

func (realScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// NewScheduler returns the wall-clock scheduler used outside tests.
func NewScheduler() Scheduler {
	return realScheduler{}
}
