package clock

import "time"

// Clock supplies the current instant. Every engine job receives one
// explicitly so transition cutoffs are deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns a clock backed by the wall clock, in UTC.
func System() Clock { return systemClock{} }

// Fixed is a clock pinned to a settable instant.
type Fixed struct {
	Instant time.Time
}

func (f *Fixed) Now() time.Time { return f.Instant }

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.Instant = f.Instant.Add(d) }

// FixedAt creates a fixed clock at t.
func FixedAt(t time.Time) *Fixed { return &Fixed{Instant: t} }
