package surface

import "time"

// Timer is a pending callback. Stop cancels it; once Stop has returned
// true the callback will never run.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The one production implementation wraps
// time.AfterFunc; tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

// SystemClock returns the real-time clock.
func SystemClock() Clock { return systemClock{} }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{time.AfterFunc(d, fn)}
}

type systemTimer struct{ t *time.Timer }

func (t systemTimer) Stop() bool { return t.t.Stop() }
