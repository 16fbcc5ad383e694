package llm

import (
	"context"
	"io"
	"strings"

	"github.com/kongmeng/sages/internal/domain"
	"github.com/kongmeng/sages/internal/observability"
)

// ErrorPrefix marks a reply that carries an absorbed generation failure
// instead of real persona content.
const ErrorPrefix = "An error occurred: "

// Adapter implements domain.Generator on top of a Provider. Provider
// failures (network, auth, quota, malformed response) never reach the
// caller as errors: they come back as ordinary reply content prefixed with
// ErrorPrefix, indistinguishable from a real response except by its text.
type Adapter struct {
	provider Provider
}

func NewAdapter(p Provider) *Adapter {
	return &Adapter{provider: p}
}

// Generate issues one blocking request and returns the whitespace-trimmed
// reply, or the absorbed error string.
func (a *Adapter) Generate(ctx context.Context, req domain.GenerationRequest) string {
	text, err := a.provider.Complete(ctx, req)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("generation failed", "error", err)
		return ErrorPrefix + err.Error()
	}
	return strings.TrimSpace(text)
}

// Stream returns a lazy fragment sequence. A provider failure, whether at
// stream open or mid-stream, surfaces as one ordinary fragment carrying the
// error string followed by end-of-stream.
func (a *Adapter) Stream(ctx context.Context, req domain.GenerationRequest) domain.TextStream {
	inner, err := a.provider.StreamComplete(ctx, req)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("stream open failed", "error", err)
		return newSliceStream(ErrorPrefix + err.Error())
	}
	return &absorbingStream{ctx: ctx, inner: inner}
}

// absorbingStream converts a mid-stream provider error into a final content
// fragment, then ends the stream.
type absorbingStream struct {
	ctx   context.Context
	inner domain.TextStream
	done  bool
}

func (s *absorbingStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	frag, err := s.inner.Recv()
	if err == io.EOF {
		s.done = true
		return "", io.EOF
	}
	if err != nil {
		observability.LoggerFromContext(s.ctx).Error("stream failed", "error", err)
		s.done = true
		return ErrorPrefix + err.Error(), nil
	}
	return frag, nil
}

func (s *absorbingStream) Close() error {
	s.done = true
	return s.inner.Close()
}
