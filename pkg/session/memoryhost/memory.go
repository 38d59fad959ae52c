// Package memoryhost keeps session snapshots in process memory. Use it for a
// single server instance and in tests; snapshots are lost on restart.
package memoryhost

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/session"
)

type claim struct {
	token   string
	expires time.Time
}

type entry struct {
	data    []byte
	expires time.Time
}

// Host implements session.Host with a mutex guarded map.
type Host struct {
	mu      sync.Mutex
	entries map[string]entry
	claims  map[string]claim
	now     func() time.Time
}

var _ session.Host = (*Host)(nil)

// New returns an empty Host.
func New() *Host {
	return &Host{
		entries: make(map[string]entry),
		claims:  make(map[string]claim),
		now:     time.Now,
	}
}

// Load returns the stored snapshot or session.ErrSessionNotFound.
func (h *Host) Load(_ context.Context, id string) (session.Snapshot, error) {
	h.mu.Lock()
	e, ok := h.entries[id]
	if ok && !e.expires.IsZero() && !h.now().Before(e.expires) {
		delete(h.entries, id)
		ok = false
	}
	h.mu.Unlock()

	if !ok {
		return session.Snapshot{}, session.ErrSessionNotFound
	}
	var snap session.Snapshot
	if err := json.Unmarshal(e.data, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("memoryhost: decode snapshot: %w", err)
	}
	return snap, nil
}

// Save stores a copy of snap. A ttl of zero keeps it until deleted.
func (h *Host) Save(_ context.Context, id string, snap session.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("memoryhost: encode snapshot: %w", err)
	}
	e := entry{data: data}
	if ttl > 0 {
		e.expires = h.now().Add(ttl)
	}

	h.mu.Lock()
	h.entries[id] = e
	h.mu.Unlock()
	return nil
}

// Delete removes id. Missing ids are not an error.
func (h *Host) Delete(_ context.Context, id string) error {
	h.mu.Lock()
	delete(h.entries, id)
	h.mu.Unlock()
	return nil
}

// Claim takes the exclusive claim on id until released or ttl passes.
func (h *Host) Claim(_ context.Context, id string, ttl time.Duration) (session.Release, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if c, ok := h.claims[id]; ok && now.Before(c.expires) {
		return nil, session.ErrSessionBusy
	}
	token := uuid.NewString()
	h.claims[id] = claim{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.claims[id]; ok && c.token == token {
			delete(h.claims, id)
		}
		return nil
	}, nil
}

// Sweep drops expired entries and returns how many were removed.
func (h *Host) Sweep() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	removed := 0
	for id, e := range h.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(h.entries, id)
			removed++
		}
	}
	for id, c := range h.claims {
		if !now.Before(c.expires) {
			delete(h.claims, id)
		}
	}
	return removed
}
