// Package events publishes form lifecycle events. The Kafka publisher is used
// in production; Noop and Memory cover disabled setups and tests.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/session"
)

// Type names an event.
type Type string

const (
	FormCreated   Type = "form.created"
	FormPublished Type = "form.published"
	FormDeleted   Type = "form.deleted"
	FormVisited   Type = "form.visited"
	FormSubmitted Type = "form.submitted"
)

// Event is the message body written to the bus.
type Event struct {
	Type       Type      `json:"type"`
	FormID     int64     `json:"formId,omitempty"`
	ShareURL   string    `json:"shareURL,omitempty"`
	OwnerID    string    `json:"ownerId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	// Content is the submitted value map for FormSubmitted events.
	Content json.RawMessage `json:"content,omitempty"`
}

// Key groups events of one form on the same partition.
func (e Event) Key() string {
	if e.ShareURL != "" {
		return e.ShareURL
	}
	return fmt.Sprintf("form-%d", e.FormID)
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Memory keeps published events in order.
type Memory struct {
	mu     sync.Mutex
	events []Event
	// Err, when set, is returned by Publish and the event is not kept.
	Err error
}

func (m *Memory) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of the published events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Persister wraps next so each stored submission is followed by a
// FormSubmitted event. Publish failures are logged and never fail the
// submission, which is already stored.
func Persister(next session.Persister, publisher Publisher, logger *slog.Logger) session.Persister {
	if publisher == nil {
		return next
	}
	if logger == nil {
		logger = slog.Default()
	}
	return session.PersisterFunc(func(ctx context.Context, shareURL, content string) error {
		if next == nil {
			return errors.New("events: no persister")
		}
		if err := next.Submit(ctx, shareURL, content); err != nil {
			return err
		}
		event := Event{
			Type:       FormSubmitted,
			ShareURL:   shareURL,
			OccurredAt: time.Now().UTC(),
		}
		if json.Valid([]byte(content)) {
			event.Content = json.RawMessage(content)
		}
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Warn("publish submission event failed", "share_url", shareURL, "error", err)
		}
		return nil
	})
}
