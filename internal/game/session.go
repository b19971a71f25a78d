package game

import "sync"

// Session wraps one match with a mutex. Every read or write of the match
// goes through Do, so actions on a match never run concurrently.
type Session struct {
	mu    sync.Mutex
	match *MatchState
}

// Do runs fn with exclusive access to the match state.
func (s *Session) Do(fn func(*MatchState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.match)
}

// Replace swaps the match state wholesale. Test hook.
func (s *Session) Replace(m *MatchState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.match = m
}

// SessionStore holds the live matches of one process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Put registers a match and returns its session.
func (st *SessionStore) Put(m *MatchState) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := &Session{match: m}
	st.sessions[m.ID] = s
	return s
}

// Get looks up a live match by id.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete drops a finished match.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// IDs lists the live match ids.
func (st *SessionStore) IDs() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len reports the live match count.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
