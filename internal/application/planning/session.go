package planning

import (
	"sync"

	"github.com/andrescamacho/prun-ccc/internal/adapters/metrics"
)

// Session orders asynchronous submissions. Each submission takes a sequence
// number from Begin; its outcome is kept only if no later submission has
// completed first. Older outcomes arriving late are dropped.
type Session[T any] struct {
	mu        sync.Mutex
	issued    uint64
	committed uint64
	value     T
	err       error
	hasValue  bool
}

// NewSession creates an empty session
func NewSession[T any]() *Session[T] {
	return &Session[T]{}
}

// Begin issues the sequence number for a new submission
func (s *Session[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit stores value as the latest outcome if seq is newer than the last
// committed outcome. It reports whether the value was kept.
func (s *Session[T]) Commit(seq uint64, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(seq) {
		return false
	}
	s.value = value
	s.err = nil
	s.hasValue = true
	return true
}

// Fail stores err as the latest outcome under the same ordering rule as Commit.
// The previously committed value stays readable.
func (s *Session[T]) Fail(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(seq) {
		return false
	}
	s.err = err
	return true
}

func (s *Session[T]) acceptLocked(seq uint64) bool {
	if seq <= s.committed || seq > s.issued {
		metrics.RecordStaleResult()
		return false
	}
	s.committed = seq
	return true
}

// Latest returns the last committed value, whether one exists, and the error
// of the latest outcome if it failed
func (s *Session[T]) Latest() (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.hasValue, s.err
}

// Committed returns the sequence number of the latest accepted outcome
func (s *Session[T]) Committed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Pending reports whether a submission newer than the latest outcome is outstanding
func (s *Session[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued > s.committed
}
