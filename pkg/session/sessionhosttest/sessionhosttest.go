// Package sessionhosttest holds the behaviour every session.Host must share.
package sessionhosttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/session"
)

// HostFactory creates a new Host for one subtest.
type HostFactory func(t *testing.T) session.Host

// RunHostTests runs the complete Host suite against the provided factory.
func RunHostTests(t *testing.T, factory HostFactory) {
	t.Run("SaveThenLoad", func(t *testing.T) { testSaveThenLoad(t, factory) })
	t.Run("LoadMissing", func(t *testing.T) { testLoadMissing(t, factory) })
	t.Run("SaveOverwrites", func(t *testing.T) { testSaveOverwrites(t, factory) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, factory) })
	t.Run("Expiry", func(t *testing.T) { testExpiry(t, factory) })
	t.Run("ClaimIsExclusive", func(t *testing.T) { testClaimExclusive(t, factory) })
	t.Run("ClaimExpires", func(t *testing.T) { testClaimExpires(t, factory) })
}

func sampleSnapshot() session.Snapshot {
	return session.Snapshot{
		ID:       uuid.NewString(),
		ShareURL: "share-" + uuid.NewString(),
		State:    session.StateFilling,
		Values:   map[string]string{"name": "Ada"},
		Drafts:   map[string]string{"name": "Ada", "age": "x"},
		Errors:   map[string]bool{"age": true},
		Epoch:    2,
		Notice:   session.NoticeValidationFailed,
	}
}

func testSaveThenLoad(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap := sampleSnapshot()
	if err := h.Save(ctx, snap.ID, snap, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := h.Load(ctx, snap.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func testLoadMissing(t *testing.T, factory HostFactory) {
	h := factory(t)
	_, err := h.Load(context.Background(), uuid.NewString())
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func testSaveOverwrites(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	if err := h.Save(ctx, snap.ID, snap, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap.State = session.StateSubmitted
	snap.Notice = session.NoticeSubmitted
	if err := h.Save(ctx, snap.ID, snap, time.Minute); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err := h.Load(ctx, snap.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.State != session.StateSubmitted {
		t.Fatalf("expected overwritten state, got %s", got.State)
	}
}

func testDelete(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	if err := h.Save(ctx, snap.ID, snap, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := h.Delete(ctx, snap.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := h.Load(ctx, snap.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := h.Delete(ctx, snap.ID); err != nil {
		t.Fatalf("deleting twice should succeed, got %v", err)
	}
}

func testExpiry(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	if err := h.Save(ctx, snap.ID, snap, 50*time.Millisecond); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := h.Load(ctx, snap.ID); errors.Is(err, session.ErrSessionNotFound) {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("snapshot did not expire")
}

func testClaimExclusive(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()
	id := uuid.NewString()

	release, err := h.Claim(ctx, id, time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := h.Claim(ctx, id, time.Minute); !errors.Is(err, session.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy for a held claim, got %v", err)
	}
	other, err := h.Claim(ctx, uuid.NewString(), time.Minute)
	if err != nil {
		t.Fatalf("claims on other ids must not conflict: %v", err)
	}
	defer other(ctx)

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := h.Claim(ctx, id, time.Minute)
	if err != nil {
		t.Fatalf("claim after release: %v", err)
	}
	if err := again(ctx); err != nil {
		t.Fatalf("release again: %v", err)
	}
}

func testClaimExpires(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()
	id := uuid.NewString()

	stale, err := h.Claim(ctx, id, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	var current session.Release
	deadline := time.Now().Add(3 * time.Second)
	for current == nil {
		if time.Now().After(deadline) {
			t.Fatalf("claim did not expire")
		}
		time.Sleep(25 * time.Millisecond)
		current, err = h.Claim(ctx, id, time.Minute)
		if err != nil && !errors.Is(err, session.ErrSessionBusy) {
			t.Fatalf("claim: %v", err)
		}
	}

	// The expired holder must not free the new claim.
	if err := stale(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if _, err := h.Claim(ctx, id, time.Minute); !errors.Is(err, session.ErrSessionBusy) {
		t.Fatalf("expected the new claim to survive a stale release, got %v", err)
	}
	if err := current(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
}
