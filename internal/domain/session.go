package domain

import (
	"sync"
	"time"
)

// Session owns all conversational state for one UI session: one independent
// thread per persona, the shared debate log, and the selected response
// length. Nothing here outlives the process; sessions are memory-resident
// only.
type Session struct {
	ID        SessionID
	CreatedAt time.Time

	mu        sync.RWMutex
	updatedAt time.Time
	length    ResponseLength

	threads map[PersonaID]*Thread
	debate  *DebateLog
}

func NewSession(id SessionID, length ResponseLength, now time.Time) *Session {
	threads := make(map[PersonaID]*Thread, len(personas))
	for _, p := range personas {
		threads[p.ID] = NewThread(p.ID)
	}

	return &Session{
		ID:        id,
		CreatedAt: now,
		updatedAt: now,
		length:    length,
		threads:   threads,
		debate:    NewDebateLog(),
	}
}

// Thread returns the conversation thread owned by the given persona.
func (s *Session) Thread(id PersonaID) (*Thread, bool) {
	t, ok := s.threads[id]
	return t, ok
}

func (s *Session) Debate() *DebateLog {
	return s.debate
}

func (s *Session) ResponseLength() ResponseLength {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.length
}

func (s *Session) SetResponseLength(l ResponseLength) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.length = l
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.updatedAt
}

// Touch records session activity.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updatedAt = now
}
