package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSessionNotFound is returned by hosts for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrSessionBusy is returned by Claim while another holder owns the session.
	ErrSessionBusy = errors.New("session: busy")
)

// Release gives a claim back. Releasing a claim that already expired and was
// taken by someone else leaves the new holder untouched.
type Release func(ctx context.Context) error

// Host keeps session snapshots between requests.
type Host interface {
	Load(ctx context.Context, id string) (Snapshot, error)
	Save(ctx context.Context, id string, snap Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	// Claim takes exclusive ownership of id for at most ttl so a
	// load, change, save sequence is not interleaved with another one.
	// It does not block; a held claim yields ErrSessionBusy.
	Claim(ctx context.Context, id string, ttl time.Duration) (Release, error)
}

// Persist subscribes host to s so every published snapshot is saved. Errors are
// passed to onErr when it is not nil. The returned func stops saving.
func Persist(ctx context.Context, s *Session, host Host, ttl time.Duration, onErr func(error)) func() {
	return s.Subscribe(func(snap Snapshot) {
		if err := host.Save(ctx, snap.ID, snap, ttl); err != nil && onErr != nil {
			onErr(err)
		}
	})
}
