package domain

import "context"

// GenerationRequest is one bounded request to the text-generation service:
// a system instruction, the prior completed exchanges in order, and the new
// input passed separately from the history.
type GenerationRequest struct {
	SystemInstruction string
	History           []Turn
	Input             string
	MaxTokens         int
}

// TextStream is a lazy, finite, non-restartable sequence of reply fragments.
// Recv returns io.EOF after the final fragment; the consumer must drain the
// stream to completion before treating the turn as finished and owns
// concatenating fragments into the persisted content. Close releases the
// underlying connection.
type TextStream interface {
	Recv() (string, error)
	Close() error
}

// Generator is the generation boundary the conversation and debate services
// talk to. It has no error channel: any failure of the underlying request is
// absorbed and returned as ordinary reply content, so a failed generation
// still produces a turn that is appended, displayed, and exported like any
// other.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) string
	Stream(ctx context.Context, req GenerationRequest) TextStream
}

// SessionStore defines the session registry.
type SessionStore interface {
	Create(s *Session) error
	Get(id SessionID) (*Session, error)
	Delete(id SessionID) error
}
