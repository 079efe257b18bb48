// Package anim provides time bounded interpolators for overlay transitions.
package anim

import (
	"sync"
	"time"
)

// Clock supplies the current time to animations.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock with its monotonic reading.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a controllable clock for tests.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualClock starts a manual clock at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current mocked time.
func (m *ManualClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t.
func (m *ManualClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Stopwatch measures time elapsed since a start point on a Clock.
type Stopwatch struct {
	clock   Clock
	start   time.Time
	running bool
}

// NewStopwatch returns a stopped stopwatch reading clock.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Stopwatch{clock: clock}
}

// Start resets the stopwatch and begins timing.
func (s *Stopwatch) Start() {
	s.start = s.clock.Now()
	s.running = true
}

// Stop halts timing. Elapsed reads zero afterwards.
func (s *Stopwatch) Stop() { s.running = false }

// Running reports whether Start was called without a later Stop.
func (s *Stopwatch) Running() bool { return s.running }

// Elapsed returns the time since Start.
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.running {
		return 0
	}
	return s.clock.Now().Sub(s.start)
}
