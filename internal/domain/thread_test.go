package domain_test

import (
	"testing"

	"github.com/kongmeng/sages/internal/domain"
)

func TestThreadHistoryExcludingLast(t *testing.T) {
	th := domain.NewThread(domain.PersonaConfucius)

	if got := th.HistoryExcludingLast(); len(got) != 0 {
		t.Fatalf("expected empty history on empty thread, got %d turns", len(got))
	}

	th.Append(domain.Turn{Role: domain.RoleUser, Content: "q1"})
	th.Append(domain.Turn{Role: domain.RoleAssistant, Content: "a1"})
	th.Append(domain.Turn{Role: domain.RoleUser, Content: "q2"})

	history := th.HistoryExcludingLast()
	if len(history) != th.Len()-1 {
		t.Fatalf("expected history length %d, got %d", th.Len()-1, len(history))
	}
	if history[len(history)-1].Content != "a1" {
		t.Fatalf("expected history to end with completed exchange, got %q", history[len(history)-1].Content)
	}
}

func TestThreadClearIsIdempotent(t *testing.T) {
	th := domain.NewThread(domain.PersonaMencius)
	th.Append(domain.Turn{Role: domain.RoleUser, Content: "q"})

	th.Clear()
	if th.Len() != 0 {
		t.Fatalf("expected empty thread after clear, got %d turns", th.Len())
	}

	th.Clear()
	if th.Len() != 0 {
		t.Fatalf("expected empty thread after double clear, got %d turns", th.Len())
	}
}

func TestThreadSingleFlight(t *testing.T) {
	th := domain.NewThread(domain.PersonaConfucius)

	if !th.BeginGeneration() {
		t.Fatal("expected first BeginGeneration to succeed")
	}
	if th.BeginGeneration() {
		t.Fatal("expected second BeginGeneration to fail while in flight")
	}

	th.EndGeneration()
	if !th.BeginGeneration() {
		t.Fatal("expected BeginGeneration to succeed after release")
	}
}

func TestThreadTurnsReturnsSnapshot(t *testing.T) {
	th := domain.NewThread(domain.PersonaConfucius)
	th.Append(domain.Turn{Role: domain.RoleUser, Content: "q"})

	snapshot := th.Turns()
	snapshot[0].Content = "mutated"

	if th.Turns()[0].Content != "q" {
		t.Fatal("mutating the snapshot must not affect the thread")
	}
}
