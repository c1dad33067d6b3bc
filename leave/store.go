/*
store.go - In-memory leave request store

PURPOSE:
  Process-local collection of leave requests. There is deliberately no
  persistence behind it: the portal's data of record lives in the external
  directory/calendar service, and the request list is session-scoped UI
  state (it does not survive a restart).

CONTRACT:
  - Add never fails and performs no validation; callers validate first.
  - UpdateStatus on an unknown id is a silent no-op.
  - List returns the collection in insertion order.
  - Mutation is always by copy: readers holding a snapshot from List are
    never affected by later writes.

The store is a dependency-injected handle, not a package-level singleton.

SEE ALSO:
  - workflow.go: The only writer besides tests
*/
package leave

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// STORE
// =============================================================================

type Store struct {
	mu       sync.RWMutex
	requests []Request
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add constructs a new pending request with a fresh id and appends it.
// Insertion order is the collection's natural iteration order.
func (s *Store) Add(userID string, start, end time.Time, typ Type, notes string) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := Request{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Type:      typ,
		Status:    StatusPending,
		Notes:     notes,
		CreatedAt: s.now(),
	}

	// Copy-on-write append: concurrently-held snapshots stay valid.
	next := make([]Request, len(s.requests)+1)
	copy(next, s.requests)
	next[len(s.requests)] = req
	s.requests = next

	return req
}

// UpdateStatus replaces the status of the request with the given id.
// Unknown ids are a silent no-op.
func (s *Store) UpdateStatus(id string, status Status) {
	s.UpdateDecision(id, status, "")
}

// UpdateDecision is UpdateStatus plus the deciding actor's id.
func (s *Store) UpdateDecision(id string, status Status, decidedBy string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.requests {
		if s.requests[i].ID != id {
			continue
		}
		next := make([]Request, len(s.requests))
		copy(next, s.requests)
		next[i].Status = status
		next[i].DecidedBy = decidedBy
		s.requests = next
		return
	}
}

// List returns a snapshot of the collection in insertion order.
func (s *Store) List() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Get returns the request with the given id.
func (s *Store) Get(id string) (Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.requests {
		if r.ID == id {
			return r, true
		}
	}
	return Request{}, false
}

// Pending returns the pending subset in insertion order.
func (s *Store) Pending() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Request
	for _, r := range s.requests {
		if r.Status == StatusPending {
			out = append(out, r)
		}
	}
	return out
}
