package booking

import "time"

// Clock supplies the current instant. The validator's "now" and "today" are
// server-local; injecting the clock lets tests pin them.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewRealClock() Clock { return realClock{} }

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (f FixedClock) Now() time.Time { return f.Instant }
