package booking

import (
	"sync"
	"time"

	"marigunting/internal/model"
)

type storedFlow struct {
	flow      *Flow
	updatedAt time.Time
}

// DraftStore keeps the live booking sessions of a host, keyed by draft id.
// Drafts are never persisted; an idle session expires after the timeout.
type DraftStore struct {
	flows   map[string]*storedFlow
	mu      sync.RWMutex
	timeout time.Duration
	now     func() time.Time
}

// NewDraftStore creates a new draft store.
func NewDraftStore(timeout time.Duration) *DraftStore {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &DraftStore{
		flows:   make(map[string]*storedFlow),
		timeout: timeout,
		now:     time.Now,
	}
}

// Start opens a new session for business and stores it.
func (s *DraftStore) Start(business model.Business, opts Options) *Flow {
	f := NewFlow(business, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[f.ID()] = &storedFlow{flow: f, updatedAt: s.now()}
	return f
}

// Get returns the session for id, or nil when missing or expired. A hit
// refreshes the session's idle timer.
func (s *DraftStore) Get(id string) *Flow {
	s.mu.Lock()
	defer s.mu.Unlock()

	sf, ok := s.flows[id]
	if !ok {
		return nil
	}
	now := s.now()
	if now.Sub(sf.updatedAt) > s.timeout {
		delete(s.flows, id)
		return nil
	}
	sf.updatedAt = now
	return sf.flow
}

// Delete discards a session on completion or cancellation.
func (s *DraftStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, id)
}

// Len returns the number of stored sessions, expired ones included.
func (s *DraftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flows)
}

// Cleanup removes expired sessions.
func (s *DraftStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sf := range s.flows {
		if now.Sub(sf.updatedAt) > s.timeout {
			delete(s.flows, id)
			removed++
		}
	}
	return removed
}
