package memoryhost

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/session/sessionhosttest"
)

func TestMemoryHost(t *testing.T) {
	sessionhosttest.RunHostTests(t, func(t *testing.T) session.Host {
		return New()
	})
}

func TestSweep(t *testing.T) {
	h := New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	ctx := context.Background()
	if err := h.Save(ctx, "a", session.Snapshot{ID: "a"}, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := h.Save(ctx, "b", session.Snapshot{ID: "b"}, 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if removed := h.Sweep(); removed != 1 {
		t.Fatalf("expected one expired entry, got %d", removed)
	}
	if _, err := h.Load(ctx, "b"); err != nil {
		t.Fatalf("entry without ttl should remain: %v", err)
	}
}
