// Package status holds the rendered status page shared between the
// precipitation monitor (sole writer) and HTTP handlers (readers).
package status

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// InitialPage is served until the first successful poll.
const InitialPage = "Initial state"

// ErrNoStatus is reported by CheckReadiness before the first write.
var ErrNoStatus = errors.New("no radar status published yet")

// Store is a lock-guarded rendered status page. Reads copy the string under
// a read lock; Set replaces it under the write lock.
type Store struct {
	clock      clockwork.Clock
	staleAfter time.Duration

	mu        sync.RWMutex
	page      string
	updatedAt time.Time
}

// NewStore returns a Store holding InitialPage. A non-positive staleAfter
// disables the staleness check.
func NewStore(clock clockwork.Clock, staleAfter time.Duration) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:      clock,
		staleAfter: staleAfter,
		page:       InitialPage,
	}
}

// Get returns the current page.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Snapshot returns the current page and when it was written. updatedAt is
// zero before the first Set.
func (s *Store) Snapshot() (page string, updatedAt time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page, s.updatedAt
}

// Set replaces the page. Empty pages are ignored so the store never goes
// blank after the first write.
func (s *Store) Set(page string) {
	if page == "" {
		return
	}
	now := s.clock.Now()

	s.mu.Lock()
	s.page = page
	s.updatedAt = now
	s.mu.Unlock()
}

// CheckReadiness fails until a status has been published and whenever the
// last one is older than the staleness limit.
func (s *Store) CheckReadiness(_ context.Context) error {
	_, updatedAt := s.Snapshot()
	if updatedAt.IsZero() {
		return ErrNoStatus
	}
	if s.staleAfter <= 0 {
		return nil
	}
	if age := s.clock.Since(updatedAt); age > s.staleAfter {
		return fmt.Errorf("radar status is stale: last update %s ago", age.Truncate(time.Second))
	}
	return nil
}
