package clock

import (
	"sync"
	"time"
)

// Clock reports the current instant.
// Implementations must be safe for concurrent use.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the process wall clock.
// The returned time carries a monotonic reading, so durations computed
// from two calls are unaffected by wall clock adjustments.
type System struct{}

// NewSystem returns the wall clock.
func NewSystem() System {
	return System{}
}

// Now returns time.Now().
func (System) Now() time.Time {
	return time.Now()
}

// Fake is a settable Clock for tests.
// Every call to Now returns the current fake instant and then moves it
// forward by the configured step, which is zero unless SetStep is called.
type Fake struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewFake returns a Fake clock positioned at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake instant and advances it by the step.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.now
	f.now = f.now.Add(f.step)
	return t
}

// Set moves the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// SetStep makes every subsequent Now call advance the clock by d.
func (f *Fake) SetStep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = d
}
