package service

import (
	"sync"
	"time"
)

// Snapshot holds the latest polled result for one dashboard view. A
// failed poll clears the previous value so stale data is never shown
// next to an error.
type Snapshot[T any] struct {
	mu      sync.RWMutex
	value   T
	err     error
	ok      bool
	updated time.Time
}

func NewSnapshot[T any]() *Snapshot[T] {
	return &Snapshot[T]{}
}

// Apply records one poll outcome. It has the signature the poller's
// apply callback expects.
func (s *Snapshot[T]) Apply(value T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updated = time.Now()
	if err != nil {
		var zero T
		s.value = zero
		s.err = err
		s.ok = false
		return
	}
	s.value = value
	s.err = nil
	s.ok = true
}

// Get returns the latest value, the error of the last failed poll, and
// whether a value is present.
func (s *Snapshot[T]) Get() (T, error, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.err, s.ok
}

// UpdatedAt reports when the snapshot last changed; zero before the
// first poll completes.
func (s *Snapshot[T]) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// Dashboard is the polled state for one facade.
type Dashboard struct {
	FacadeID   string
	Efficiency *Snapshot[EfficiencyView]
	Cycle      *Snapshot[CycleReport]
	Realtime   *Snapshot[RealtimeView]
}

func NewDashboard(facadeID string) *Dashboard {
	return &Dashboard{
		FacadeID:   facadeID,
		Efficiency: NewSnapshot[EfficiencyView](),
		Cycle:      NewSnapshot[CycleReport](),
		Realtime:   NewSnapshot[RealtimeView](),
	}
}
