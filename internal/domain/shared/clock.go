package shared

import (
	"sync"
	"time"
)

// Clock abstracts time so backoff and circuit breaker timing can be driven from tests
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock reads the system clock
type RealClock struct{}

// Now returns the current UTC time
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep blocks the calling goroutine for d
func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// NewRealClock returns the production clock
func NewRealClock() Clock {
	return RealClock{}
}

// MockClock is a manually driven clock. Sleep advances time instantly and records the requested durations.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	slept   []time.Duration
}

// NewMockClock creates a MockClock starting at start (or now when start is zero)
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{current: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *MockClock) Sleep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
	m.slept = append(m.slept, d)
}

// Advance moves the clock forward without recording a sleep
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// Sleeps returns a copy of every duration passed to Sleep
func (m *MockClock) Sleeps() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.slept))
	copy(out, m.slept)
	return out
}
