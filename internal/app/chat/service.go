package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kongmeng/sages/internal/domain"
	"github.com/kongmeng/sages/internal/observability"
)

var (
	ErrUnknownPersona = errors.New("unknown persona")
	ErrEmptyMessage   = errors.New("message text is empty")

	// ErrBusy is returned when a generation request for the same thread is
	// already in flight.
	ErrBusy = errors.New("a reply for this persona is still being generated")
)

// Service drives the two independent single-persona conversation threads of
// a session.
type Service struct {
	gen           domain.Generator
	sessions      domain.SessionStore
	defaultLength domain.ResponseLength
	now           func() time.Time
}

// NewService builds the chat service. defaultLength is applied to sessions
// created without an explicit length; empty falls back to medium.
func NewService(gen domain.Generator, sessions domain.SessionStore, defaultLength domain.ResponseLength) *Service {
	if defaultLength == "" {
		defaultLength = domain.LengthMedium
	}
	return &Service{
		gen:           gen,
		sessions:      sessions,
		defaultLength: defaultLength,
		now:           time.Now,
	}
}

type StartSessionInput struct {
	ResponseLength domain.ResponseLength
}

// StartSession creates a fresh session: two empty threads and an idle
// debate log.
func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*domain.Session, error) {
	length := in.ResponseLength
	if length == "" {
		length = s.defaultLength
	}

	session := domain.NewSession(domain.SessionID(uuid.NewString()), length, s.now())
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("session started",
		"session_id", session.ID,
		"response_length", length,
	)
	return session, nil
}

// GetSession returns the live session for rendering.
func (s *Service) GetSession(_ context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.sessions.Get(id)
}

type SendInput struct {
	SessionID domain.SessionID
	Persona   domain.PersonaID
	Text      string
}

type SendOutput struct {
	UserTurn      domain.Turn
	AssistantTurn domain.Turn
}

// Send runs one complete exchange on a persona's thread: append the user
// turn, generate a reply against the prior history, append the assistant
// turn. The reply may be an absorbed error string; this layer cannot tell
// and does not care.
func (s *Service) Send(ctx context.Context, in SendInput) (*SendOutput, error) {
	session, persona, thread, err := s.resolve(in.SessionID, in.Persona)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if !thread.BeginGeneration() {
		return nil, ErrBusy
	}
	defer thread.EndGeneration()

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"persona", persona.ID,
	)
	log.Info("sending message")

	userTurn := s.newTurn(domain.RoleUser, text)
	thread.Append(userTurn)

	reply := s.gen.Generate(ctx, domain.GenerationRequest{
		SystemInstruction: persona.SystemInstruction,
		History:           thread.HistoryExcludingLast(),
		Input:             text,
		MaxTokens:         s.budget(session, persona),
	})

	assistantTurn := s.newTurn(domain.RoleAssistant, reply)
	thread.Append(assistantTurn)
	session.Touch(s.now())

	log.Info("exchange completed", "thread_len", thread.Len())

	return &SendOutput{
		UserTurn:      userTurn,
		AssistantTurn: assistantTurn,
	}, nil
}

// StreamResult is an in-progress streamed exchange. The caller drains
// Fragments, buffering them itself, then calls Commit with the concatenated
// reply to finish the assistant turn and release the thread. A result that
// is dropped without committing keeps the thread locked; every caller path
// must end in Commit.
type StreamResult struct {
	UserTurn  domain.Turn
	Fragments domain.TextStream

	once   sync.Once
	turn   domain.Turn
	commit func(full string) domain.Turn
}

// Commit appends the assistant turn built from the drained fragments and
// releases the thread. Only the first call commits; repeated calls return
// the already-committed turn.
func (r *StreamResult) Commit(full string) domain.Turn {
	r.once.Do(func() {
		r.turn = r.commit(full)
	})
	return r.turn
}

// SendStreaming is the incremental variant of Send. The user turn is
// appended immediately; the assistant turn is appended only when the caller
// commits the drained reply. The thread stays single-flight-locked until
// then.
func (s *Service) SendStreaming(ctx context.Context, in SendInput) (*StreamResult, error) {
	session, persona, thread, err := s.resolve(in.SessionID, in.Persona)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if !thread.BeginGeneration() {
		return nil, ErrBusy
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"persona", persona.ID,
	)
	log.Info("sending message", "stream", true)

	userTurn := s.newTurn(domain.RoleUser, text)
	thread.Append(userTurn)

	fragments := s.gen.Stream(ctx, domain.GenerationRequest{
		SystemInstruction: persona.SystemInstruction,
		History:           thread.HistoryExcludingLast(),
		Input:             text,
		MaxTokens:         s.budget(session, persona),
	})

	return &StreamResult{
		UserTurn:  userTurn,
		Fragments: fragments,
		commit: func(full string) domain.Turn {
			defer thread.EndGeneration()

			assistantTurn := s.newTurn(domain.RoleAssistant, strings.TrimSpace(full))
			thread.Append(assistantTurn)
			session.Touch(s.now())

			log.Info("streamed exchange completed", "thread_len", thread.Len())
			return assistantTurn
		},
	}, nil
}

// Clear empties one persona's thread. Idempotent.
func (s *Service) Clear(ctx context.Context, sessionID domain.SessionID, personaID domain.PersonaID) error {
	session, persona, thread, err := s.resolve(sessionID, personaID)
	if err != nil {
		return err
	}

	thread.Clear()
	session.Touch(s.now())

	observability.LoggerFromContext(ctx).Info("thread cleared",
		"session_id", session.ID,
		"persona", persona.ID,
	)
	return nil
}

// ClearAll empties both persona threads. The debate log is cleared
// separately by its own orchestrator.
func (s *Service) ClearAll(ctx context.Context, sessionID domain.SessionID) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	for _, p := range domain.Personas() {
		if thread, ok := session.Thread(p.ID); ok {
			thread.Clear()
		}
	}
	session.Touch(s.now())

	observability.LoggerFromContext(ctx).Info("all threads cleared", "session_id", session.ID)
	return nil
}

func (s *Service) resolve(sessionID domain.SessionID, personaID domain.PersonaID) (*domain.Session, domain.Persona, *domain.Thread, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, domain.Persona{}, nil, err
	}

	persona, ok := domain.GetPersona(personaID)
	if !ok {
		return nil, domain.Persona{}, nil, ErrUnknownPersona
	}

	thread, ok := session.Thread(persona.ID)
	if !ok {
		return nil, domain.Persona{}, nil, ErrUnknownPersona
	}

	return session, persona, thread, nil
}

func (s *Service) budget(session *domain.Session, persona domain.Persona) int {
	if l := session.ResponseLength(); l != "" {
		return l.MaxTokens()
	}
	return persona.DefaultMaxTokens
}

func (s *Service) newTurn(role domain.Role, content string) domain.Turn {
	return domain.Turn{
		ID:        domain.TurnID(uuid.NewString()),
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
}
