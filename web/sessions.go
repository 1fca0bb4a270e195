// ABOUTME: In-memory store for interactive simulation sessions.
// ABOUTME: Sessions are capped in number and swept after an idle TTL.
package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/statemap-research/basin/boolnet"
)

// Simulation is one interactive stepping session over a compiled
// network. The wrapped stepper is only touched through WithStepper.
type Simulation struct {
	ID         string
	NetworkID  string
	CreatedAt  time.Time
	LastAccess time.Time

	mu      sync.Mutex
	stepper *boolnet.Stepper
}

// WithStepper runs fn with exclusive access to the session's stepper.
func (s *Simulation) WithStepper(fn func(*boolnet.Stepper)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.stepper)
}

// SessionStore holds live simulations keyed by session id.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*Simulation
	maxSessions int
	ttl         time.Duration
}

// NewSessionStore creates a store that holds at most maxSessions
// sessions and expires them after ttl of inactivity.
func NewSessionStore(maxSessions int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*Simulation),
		maxSessions: maxSessions,
		ttl:         ttl,
	}
}

// Create registers a new session around the given stepper. At capacity
// the longest-idle session is evicted to make room.
func (st *SessionStore) Create(networkID string, stepper *boolnet.Stepper) *Simulation {
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.sessions) >= st.maxSessions {
		st.evictOldest()
	}

	now := time.Now()
	sim := &Simulation{
		ID:         uuid.New().String(),
		NetworkID:  networkID,
		CreatedAt:  now,
		LastAccess: now,
		stepper:    stepper,
	}
	st.sessions[sim.ID] = sim
	return sim
}

// evictOldest removes the session with the oldest last access. The
// caller must hold the lock.
func (st *SessionStore) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, sim := range st.sessions {
		if oldestID == "" || sim.LastAccess.Before(oldest) {
			oldestID = id
			oldest = sim.LastAccess
		}
	}
	if oldestID != "" {
		delete(st.sessions, oldestID)
	}
}

// Get returns the session with the given id, refreshing its last
// access time.
func (st *SessionStore) Get(id string) (*Simulation, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sim, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	sim.LastAccess = time.Now()
	return sim, true
}

// Delete removes a session, reporting whether it existed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup drops sessions idle past the TTL and reports how many were
// removed.
func (st *SessionStore) Cleanup() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := time.Now().Add(-st.ttl)
	removed := 0
	for id, sim := range st.sessions {
		if sim.LastAccess.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
