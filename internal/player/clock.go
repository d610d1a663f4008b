package player

import "time"

// Clock abstracts timer scheduling so tests can drive a deterministic fake.
type Clock interface {
	// AfterFunc schedules fn to run on its own goroutine after d.
	AfterFunc(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Timer is a cancellable scheduled callback. Stop reports whether the
// callback was prevented from running; stopping twice is harmless.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (realClock) Now() time.Time {
	return time.Now()
}

// NewClock returns the wall clock.
func NewClock() Clock {
	return realClock{}
}
