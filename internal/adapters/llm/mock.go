package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/kongmeng/sages/internal/domain"
)

// Mock is a scripted provider for local mode and tests. It echoes the input
// so callers can assert on reply content.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Complete(_ context.Context, req domain.GenerationRequest) (string, error) {
	return m.reply(req), nil
}

func (m *Mock) StreamComplete(_ context.Context, req domain.GenerationRequest) (domain.TextStream, error) {
	reply := m.reply(req)
	words := strings.SplitAfter(reply, " ")
	return newSliceStream(words...), nil
}

func (m *Mock) reply(req domain.GenerationRequest) string {
	return fmt.Sprintf("The Master considers your words: %q. Reflect, and ask again.", req.Input)
}

// Failing is a provider whose every request fails. Tests use it to exercise
// the adapter's error-absorbing boundary.
type Failing struct {
	Err error
}

func NewFailing(err error) *Failing {
	return &Failing{Err: err}
}

func (f *Failing) Complete(context.Context, domain.GenerationRequest) (string, error) {
	return "", f.Err
}

func (f *Failing) StreamComplete(context.Context, domain.GenerationRequest) (domain.TextStream, error) {
	return nil, f.Err
}
