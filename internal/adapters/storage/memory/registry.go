package memory

import (
	"errors"
	"sync"

	"github.com/kongmeng/sages/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRegistry holds live sessions in memory. Nothing is persisted:
// session state exists for the lifetime of the process only.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

func (r *SessionRegistry) Create(s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return errors.New("session already exists")
	}

	r.sessions[s.ID] = s
	return nil
}

func (r *SessionRegistry) Get(id domain.SessionID) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (r *SessionRegistry) Delete(id domain.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
