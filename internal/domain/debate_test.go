package domain_test

import (
	"testing"

	"github.com/kongmeng/sages/internal/domain"
)

func TestDebateLogResetSeedsTopic(t *testing.T) {
	dl := domain.NewDebateLog()
	dl.Reset("Is human nature good?")

	entries := dl.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reset, got %d", len(entries))
	}
	if entries[0].Kind != domain.EntryTopic {
		t.Fatalf("expected first entry to be the topic, got %q", entries[0].Kind)
	}
	if !dl.Active() {
		t.Fatal("expected debate to be active after reset")
	}

	topic, ok := dl.Topic()
	if !ok || topic != "Is human nature good?" {
		t.Fatalf("unexpected topic %q (ok=%v)", topic, ok)
	}
}

func TestDebateLogLastResponseBy(t *testing.T) {
	dl := domain.NewDebateLog()
	dl.Reset("topic")
	dl.AppendResponse(domain.PersonaConfucius, "c1")
	dl.AppendResponse(domain.PersonaMencius, "m1")
	dl.AppendResponse(domain.PersonaConfucius, "c2")
	dl.AppendResponse(domain.PersonaMencius, "m2")

	got, ok := dl.LastResponseBy(domain.PersonaMencius)
	if !ok || got != "m2" {
		t.Fatalf("expected latest Mencius remark m2, got %q (ok=%v)", got, ok)
	}

	got, ok = dl.LastResponseBy(domain.PersonaConfucius)
	if !ok || got != "c2" {
		t.Fatalf("expected latest Confucius remark c2, got %q (ok=%v)", got, ok)
	}
}

func TestDebateLogClearIsIdempotent(t *testing.T) {
	dl := domain.NewDebateLog()
	dl.Reset("topic")
	dl.AppendResponse(domain.PersonaConfucius, "c1")

	dl.Clear()
	if dl.Active() || len(dl.Entries()) != 0 {
		t.Fatal("expected inactive empty log after clear")
	}

	dl.Clear()
	if dl.Active() || len(dl.Entries()) != 0 {
		t.Fatal("expected inactive empty log after double clear")
	}

	if _, ok := dl.LastResponseBy(domain.PersonaConfucius); ok {
		t.Fatal("expected no responses after clear")
	}
}

func TestOpponent(t *testing.T) {
	if domain.Opponent(domain.PersonaConfucius) != domain.PersonaMencius {
		t.Fatal("expected Mencius to oppose Confucius")
	}
	if domain.Opponent(domain.PersonaMencius) != domain.PersonaConfucius {
		t.Fatal("expected Confucius to oppose Mencius")
	}
}

func TestResponseLengthBudgets(t *testing.T) {
	cases := []struct {
		length domain.ResponseLength
		want   int
	}{
		{domain.LengthShort, 250},
		{domain.LengthMedium, 500},
		{domain.LengthLong, 800},
		{domain.ResponseLength("bogus"), 500},
	}
	for _, c := range cases {
		if got := c.length.MaxTokens(); got != c.want {
			t.Errorf("MaxTokens(%q) = %d, want %d", c.length, got, c.want)
		}
	}
}
