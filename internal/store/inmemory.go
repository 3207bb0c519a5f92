package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemory is the default Store: a mutex-guarded map. Good for a single
// process; sessions vanish on restart, which is acceptable because report
// retention is not a goal of this service.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[uuid.UUID]*Session)}
}

func (s *InMemory) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(session), nil
}

func (s *InMemory) Put(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := copySession(session)
	stored.UpdatedAt = time.Now()
	s.sessions[session.ID] = stored
	return nil
}

func (s *InMemory) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *InMemory) Expire(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// copySession keeps callers and the store from sharing mutable state.
// Report contents are not deep-copied; they are write-once.
func copySession(in *Session) *Session {
	out := *in
	out.Reports = make(map[string][]byte, len(in.Reports))
	for name, content := range in.Reports {
		out.Reports[name] = content
	}
	return &out
}
