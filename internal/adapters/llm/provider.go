package llm

import (
	"context"
	"io"

	"github.com/kongmeng/sages/internal/domain"
)

// temperature is fixed for both providers: consistent persona voice with
// some variation. Not user-configurable.
const temperature = 0.7

// Provider is a raw text-generation backend. Unlike domain.Generator it has
// a normal error channel; the Adapter in this package absorbs those errors.
type Provider interface {
	Complete(ctx context.Context, req domain.GenerationRequest) (string, error)
	StreamComplete(ctx context.Context, req domain.GenerationRequest) (domain.TextStream, error)
}

// sliceStream serves a fixed set of fragments. Used by the mock provider
// and by the adapter to surface a single error fragment.
type sliceStream struct {
	fragments []string
	pos       int
}

func newSliceStream(fragments ...string) *sliceStream {
	return &sliceStream{fragments: fragments}
}

func (s *sliceStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		return "", io.EOF
	}
	f := s.fragments[s.pos]
	s.pos++
	return f, nil
}

func (s *sliceStream) Close() error { return nil }
