package api

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// CircuitState is the state of one endpoint's breaker
type CircuitState int

const (
	// CircuitClosed lets every call through
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until the reset timeout has passed
	CircuitOpen
	// CircuitHalfOpen has a single trial call in flight
	CircuitHalfOpen
)

// ErrCircuitOpen is returned when the endpoint's breaker rejects a call
var ErrCircuitOpen = errors.New("circuit breaker open")

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// BreakerSettings apply to every breaker of a BreakerSet
type BreakerSettings struct {
	MaxFailures  int
	ResetTimeout time.Duration
}

// StateChangeFunc observes breaker transitions. It runs outside the breaker lock.
type StateChangeFunc func(endpoint string, from, to CircuitState)

// CircuitBreaker guards one upstream endpoint. It opens after MaxFailures
// consecutive failures; once ResetTimeout has passed a single trial call is let
// through and its outcome closes or reopens the circuit.
type CircuitBreaker struct {
	endpoint string
	settings BreakerSettings
	clock    shared.Clock
	onChange StateChangeFunc

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
}

type transition struct {
	from, to CircuitState
}

// NewCircuitBreaker creates a closed breaker for endpoint.
// If clock is nil, uses RealClock. onChange may be nil.
func NewCircuitBreaker(endpoint string, settings BreakerSettings, clock shared.Clock, onChange StateChangeFunc) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if settings.MaxFailures < 1 {
		settings.MaxFailures = 1
	}
	return &CircuitBreaker{
		endpoint: endpoint,
		settings: settings,
		clock:    clock,
		onChange: onChange,
	}
}

// Call runs fn unless the circuit rejects it. fn runs without the lock held
// so retries and backoff sleeps do not block other callers.
func (cb *CircuitBreaker) Call(fn func() error) error {
	changed, err := cb.admit()
	cb.notify(changed)
	if err != nil {
		return err
	}

	err = fn()
	cb.notify(cb.settle(err))
	return err
}

func (cb *CircuitBreaker) admit() (*transition, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if cb.clock.Now().Sub(cb.openedAt) < cb.settings.ResetTimeout {
			return nil, ErrCircuitOpen
		}
		return cb.moveTo(CircuitHalfOpen), nil
	case CircuitHalfOpen:
		return nil, ErrCircuitOpen
	}
	return nil, nil
}

func (cb *CircuitBreaker) settle(err error) *transition {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		return cb.moveTo(CircuitClosed)
	}

	cb.failures++
	if cb.state == CircuitHalfOpen || cb.failures >= cb.settings.MaxFailures {
		cb.openedAt = cb.clock.Now()
		return cb.moveTo(CircuitOpen)
	}
	return nil
}

// moveTo must be called with mu held
func (cb *CircuitBreaker) moveTo(state CircuitState) *transition {
	if cb.state == state {
		return nil
	}
	t := &transition{from: cb.state, to: state}
	cb.state = state
	return t
}

func (cb *CircuitBreaker) notify(t *transition) {
	if t != nil && cb.onChange != nil {
		cb.onChange(cb.endpoint, t.from, t.to)
	}
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the consecutive failure count
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset closes the circuit and clears the failure count
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	cb.failures = 0
	changed := cb.moveTo(CircuitClosed)
	cb.mu.Unlock()
	cb.notify(changed)
}

// BreakerSet keeps one breaker per endpoint so an outage of the price feed
// does not short-circuit the planning API and the other way round.
type BreakerSet struct {
	settings BreakerSettings
	clock    shared.Clock
	onChange StateChangeFunc

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewBreakerSet creates an empty set. If clock is nil, uses RealClock.
func NewBreakerSet(settings BreakerSettings, clock shared.Clock, onChange StateChangeFunc) *BreakerSet {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &BreakerSet{
		settings: settings,
		clock:    clock,
		onChange: onChange,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// For returns the breaker of endpoint, creating it closed on first use
func (s *BreakerSet) For(endpoint string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb, ok := s.breakers[endpoint]
	if !ok {
		cb = NewCircuitBreaker(endpoint, s.settings, s.clock, s.onChange)
		s.breakers[endpoint] = cb
	}
	return cb
}

// Open lists the endpoints whose circuit is not closed, sorted
func (s *BreakerSet) Open() []string {
	s.mu.Lock()
	breakers := make(map[string]*CircuitBreaker, len(s.breakers))
	for endpoint, cb := range s.breakers {
		breakers[endpoint] = cb
	}
	s.mu.Unlock()

	var open []string
	for endpoint, cb := range breakers {
		if cb.State() != CircuitClosed {
			open = append(open, endpoint)
		}
	}
	sort.Strings(open)
	return open
}
