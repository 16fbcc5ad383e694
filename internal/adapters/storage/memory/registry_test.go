package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/kongmeng/sages/internal/adapters/storage/memory"
	"github.com/kongmeng/sages/internal/domain"
)

func TestSessionRegistryLifecycle(t *testing.T) {
	reg := memory.NewSessionRegistry()
	session := domain.NewSession("s1", domain.LengthMedium, time.Now())

	if err := reg.Create(session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := reg.Create(session); err == nil {
		t.Fatal("expected duplicate Create to fail")
	}

	got, err := reg.Get("s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != session {
		t.Fatal("expected the same session instance back")
	}

	if err := reg.Delete("s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := reg.Get("s1"); !errors.Is(err, memory.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := reg.Delete("s1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}
