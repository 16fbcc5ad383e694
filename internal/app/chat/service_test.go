package chat_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/kongmeng/sages/internal/adapters/llm"
	"github.com/kongmeng/sages/internal/adapters/storage/memory"
	"github.com/kongmeng/sages/internal/app/chat"
	"github.com/kongmeng/sages/internal/domain"
)

// recordingGenerator captures every request and answers with a numbered
// reply.
type recordingGenerator struct {
	requests []domain.GenerationRequest
}

func (g *recordingGenerator) Generate(_ context.Context, req domain.GenerationRequest) string {
	g.requests = append(g.requests, req)
	return fmt.Sprintf("reply %d", len(g.requests))
}

func (g *recordingGenerator) Stream(ctx context.Context, req domain.GenerationRequest) domain.TextStream {
	return nil
}

// blockingGenerator holds every Generate call until released.
type blockingGenerator struct {
	started  chan struct{}
	released chan struct{}
}

func (g *blockingGenerator) Generate(context.Context, domain.GenerationRequest) string {
	g.started <- struct{}{}
	<-g.released
	return "reply"
}

func (g *blockingGenerator) Stream(context.Context, domain.GenerationRequest) domain.TextStream {
	return nil
}

func newSessionForTest(t *testing.T, gen domain.Generator) (*chat.Service, domain.SessionID) {
	t.Helper()

	svc := chat.NewService(gen, memory.NewSessionRegistry(), domain.LengthMedium)
	session, err := svc.StartSession(context.Background(), chat.StartSessionInput{})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	return svc, session.ID
}

func TestStartSessionUsesConfiguredDefaultLength(t *testing.T) {
	svc := chat.NewService(&recordingGenerator{}, memory.NewSessionRegistry(), domain.LengthLong)

	session, err := svc.StartSession(context.Background(), chat.StartSessionInput{})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if got := session.ResponseLength(); got != domain.LengthLong {
		t.Fatalf("default length = %q, want %q", got, domain.LengthLong)
	}

	// An explicit length on the input still wins over the configured default.
	session, err = svc.StartSession(context.Background(), chat.StartSessionInput{
		ResponseLength: domain.LengthShort,
	})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if got := session.ResponseLength(); got != domain.LengthShort {
		t.Fatalf("explicit length = %q, want %q", got, domain.LengthShort)
	}
}

func TestSendAlternatesTurns(t *testing.T) {
	gen := &recordingGenerator{}
	svc, sessionID := newSessionForTest(t, gen)
	ctx := context.Background()

	const n = 4
	for i := 0; i < n; i++ {
		_, err := svc.Send(ctx, chat.SendInput{
			SessionID: sessionID,
			Persona:   domain.PersonaConfucius,
			Text:      fmt.Sprintf("question %d", i),
		})
		if err != nil {
			t.Fatalf("Send %d failed: %v", i, err)
		}
	}

	session, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	thread, _ := session.Thread(domain.PersonaConfucius)
	turns := thread.Turns()

	if len(turns) != 2*n {
		t.Fatalf("expected %d turns after %d sends, got %d", 2*n, n, len(turns))
	}
	for i, turn := range turns {
		want := domain.RoleUser
		if i%2 == 1 {
			want = domain.RoleAssistant
		}
		if turn.Role != want {
			t.Fatalf("turn %d: role = %q, want %q", i, turn.Role, want)
		}
	}
}

func TestSendPassesPriorHistoryOnly(t *testing.T) {
	gen := &recordingGenerator{}
	svc, sessionID := newSessionForTest(t, gen)
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		if _, err := svc.Send(ctx, chat.SendInput{
			SessionID: sessionID,
			Persona:   domain.PersonaMencius,
			Text:      text,
		}); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	if len(gen.requests) != 2 {
		t.Fatalf("expected 2 generation requests, got %d", len(gen.requests))
	}

	first := gen.requests[0]
	if len(first.History) != 0 {
		t.Fatalf("first request: expected empty history, got %d turns", len(first.History))
	}
	if first.Input != "first" {
		t.Fatalf("first request: input = %q", first.Input)
	}

	second := gen.requests[1]
	if len(second.History) != 2 {
		t.Fatalf("second request: expected prior exchange in history, got %d turns", len(second.History))
	}
	if second.History[0].Content != "first" || second.History[1].Content != "reply 1" {
		t.Fatalf("second request: unexpected history %+v", second.History)
	}
	if second.Input != "second" {
		t.Fatalf("second request: input = %q", second.Input)
	}
}

func TestSendConcreteScenario(t *testing.T) {
	svc, sessionID := newSessionForTest(t, llm.NewAdapter(llm.NewMock()))
	ctx := context.Background()

	out, err := svc.Send(ctx, chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaConfucius,
		Text:      "What is virtue?",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if out.UserTurn.Role != domain.RoleUser || out.UserTurn.Content != "What is virtue?" {
		t.Fatalf("unexpected user turn %+v", out.UserTurn)
	}
	if out.AssistantTurn.Role != domain.RoleAssistant || out.AssistantTurn.Content == "" {
		t.Fatalf("expected non-empty assistant turn, got %+v", out.AssistantTurn)
	}
}

func TestSendFailingAdapterStillAppendsTurn(t *testing.T) {
	svc, sessionID := newSessionForTest(t, llm.NewAdapter(llm.NewFailing(errors.New("boom"))))
	ctx := context.Background()

	out, err := svc.Send(ctx, chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaConfucius,
		Text:      "What is virtue?",
	})
	if err != nil {
		t.Fatalf("Send must not surface generation failures, got %v", err)
	}
	if out.AssistantTurn.Content != llm.ErrorPrefix+"boom" {
		t.Fatalf("expected absorbed error content, got %q", out.AssistantTurn.Content)
	}
}

func TestSendRejectsEmptyText(t *testing.T) {
	svc, sessionID := newSessionForTest(t, &recordingGenerator{})

	_, err := svc.Send(context.Background(), chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaConfucius,
		Text:      "   ",
	})
	if !errors.Is(err, chat.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSendRejectsUnknownPersona(t *testing.T) {
	svc, sessionID := newSessionForTest(t, &recordingGenerator{})

	_, err := svc.Send(context.Background(), chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaID("socrates"),
		Text:      "hello",
	})
	if !errors.Is(err, chat.ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
}

func TestSendSingleFlightPerThread(t *testing.T) {
	gen := &blockingGenerator{
		started:  make(chan struct{}),
		released: make(chan struct{}),
	}
	svc, sessionID := newSessionForTest(t, gen)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Send(ctx, chat.SendInput{
			SessionID: sessionID,
			Persona:   domain.PersonaConfucius,
			Text:      "slow question",
		})
		done <- err
	}()

	<-gen.started

	_, err := svc.Send(ctx, chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaConfucius,
		Text:      "impatient question",
	})
	if !errors.Is(err, chat.ErrBusy) {
		t.Fatalf("expected ErrBusy while a request is in flight, got %v", err)
	}

	close(gen.released)
	if err := <-done; err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
}

func TestThreadsAreIndependent(t *testing.T) {
	gen := &recordingGenerator{}
	svc, sessionID := newSessionForTest(t, gen)
	ctx := context.Background()

	if _, err := svc.Send(ctx, chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaConfucius,
		Text:      "for Confucius",
	}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	session, _ := svc.GetSession(ctx, sessionID)
	menciusThread, _ := session.Thread(domain.PersonaMencius)
	if menciusThread.Len() != 0 {
		t.Fatalf("expected Mencius thread untouched, got %d turns", menciusThread.Len())
	}
}

func TestClearIsIdempotent(t *testing.T) {
	svc, sessionID := newSessionForTest(t, llm.NewAdapter(llm.NewMock()))
	ctx := context.Background()

	if _, err := svc.Send(ctx, chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaConfucius,
		Text:      "q",
	}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.Clear(ctx, sessionID, domain.PersonaConfucius); err != nil {
			t.Fatalf("Clear %d failed: %v", i, err)
		}
	}

	session, _ := svc.GetSession(ctx, sessionID)
	thread, _ := session.Thread(domain.PersonaConfucius)
	if thread.Len() != 0 {
		t.Fatalf("expected empty thread after clears, got %d turns", thread.Len())
	}
}

func TestSendStreamingCommitsDrainedReply(t *testing.T) {
	svc, sessionID := newSessionForTest(t, llm.NewAdapter(llm.NewMock()))
	ctx := context.Background()

	result, err := svc.SendStreaming(ctx, chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaMencius,
		Text:      "What nourishes the qi?",
	})
	if err != nil {
		t.Fatalf("SendStreaming failed: %v", err)
	}

	var full string
	for {
		fragment, err := result.Fragments.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected stream error %v", err)
		}
		full += fragment
	}

	assistantTurn := result.Commit(full)
	if assistantTurn.Content == "" {
		t.Fatal("expected non-empty committed turn")
	}

	session, _ := svc.GetSession(ctx, sessionID)
	thread, _ := session.Thread(domain.PersonaMencius)
	if thread.Len() != 2 {
		t.Fatalf("expected 2 turns after streamed exchange, got %d", thread.Len())
	}

	// The guard must be released after commit.
	if _, err := svc.Send(ctx, chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaMencius,
		Text:      "again",
	}); err != nil {
		t.Fatalf("Send after streamed exchange failed: %v", err)
	}
}

func TestStreamCommitIsAtMostOnce(t *testing.T) {
	svc, sessionID := newSessionForTest(t, llm.NewAdapter(llm.NewMock()))
	ctx := context.Background()

	result, err := svc.SendStreaming(ctx, chat.SendInput{
		SessionID: sessionID,
		Persona:   domain.PersonaConfucius,
		Text:      "What is ritual?",
	})
	if err != nil {
		t.Fatalf("SendStreaming failed: %v", err)
	}
	full := drainAll(t, result.Fragments)

	first := result.Commit(full)
	second := result.Commit("something else entirely")
	if second.ID != first.ID || second.Content != first.Content {
		t.Fatalf("repeated Commit returned a different turn: %+v vs %+v", second, first)
	}

	session, _ := svc.GetSession(ctx, sessionID)
	thread, _ := session.Thread(domain.PersonaConfucius)
	if thread.Len() != 2 {
		t.Fatalf("expected 2 turns after double commit, got %d", thread.Len())
	}
}

func drainAll(t *testing.T, stream domain.TextStream) string {
	t.Helper()

	var full string
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			return full
		}
		if err != nil {
			t.Fatalf("unexpected stream error %v", err)
		}
		full += fragment
	}
}
