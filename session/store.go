package session

import (
	"sync"
	"time"

	"faq-agent/web/types"
)

// Store keeps short-lived per-session conversation history in memory.
// Expiry is lazy: a session older than the TTL is reset on its next access,
// never by a background sweep. Access to one session is serialized so
// concurrent turns from the same session id cannot lose appends.
type Store struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*state
}

type state struct {
	mu         sync.Mutex
	lastActive time.Time
	history    []types.Message
}

// NewStore builds a Store with the given TTL and history cap. now is the
// clock used for expiry checks; pass time.Now outside of tests.
func NewStore(ttl time.Duration, maxEntries int, now func() time.Time) *Store {
	if maxEntries <= 0 {
		maxEntries = 10
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
		sessions:   make(map[string]*state),
	}
}

// get returns the session record, creating it if absent. The record's own
// lock is acquired by the caller.
func (s *Store) get(sessionID string) *state {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &state{lastActive: s.now()}
		s.sessions[sessionID] = st
	}
	return st
}

// expireLocked resets the history when the session has been idle past the
// TTL. Caller holds st.mu.
func (s *Store) expireLocked(st *state, now time.Time) {
	if s.ttl > 0 && now.Sub(st.lastActive) > s.ttl {
		st.history = nil
	}
	st.lastActive = now
}

// GetHistory returns a copy of the session's conversation log, applying the
// lazy expiry check first. The returned slice is never nil.
func (s *Store) GetHistory(sessionID string) []types.Message {
	st := s.get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	s.expireLocked(st, s.now())
	out := make([]types.Message, len(st.history))
	copy(out, st.history)
	return out
}

// Append adds one turn to the session log, then trims to the most recent
// maxEntries entries, oldest dropped first.
func (s *Store) Append(sessionID, role, content string) {
	st := s.get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	s.expireLocked(st, s.now())
	st.history = append(st.history, types.Message{Role: role, Content: content})
	if len(st.history) > s.maxEntries {
		st.history = st.history[len(st.history)-s.maxEntries:]
	}
}
