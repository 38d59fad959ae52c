// Package session drives one user's fill-in of a published form: it tracks
// draft and committed values, runs validation on submit, and hands the value
// map to a Persister.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submission is still being persisted.
	ErrSubmitInFlight = errors.New("session: submission already in flight")
	// ErrSubmitted is returned for any event after a successful submission.
	ErrSubmitted = errors.New("session: form already submitted")
	// ErrPersistence wraps failures reported by the Persister.
	ErrPersistence = errors.New("session: persist submission")
	// ErrUnknownElement is returned for events naming an id outside the schema.
	ErrUnknownElement = errors.New("session: unknown element")
)

// State is the submission lifecycle position.
type State string

const (
	StateFilling    State = "filling"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

// Notice is the user facing message attached to the latest transition.
type Notice string

const (
	NoticeNone             Notice = ""
	NoticeValidationFailed Notice = "Please check the form for errors"
	NoticeSubmitFailed     Notice = "Something went wrong"
	NoticeSubmitted        Notice = "Form submitted successfully"
)

// Persister stores a validated submission.
type Persister interface {
	Submit(ctx context.Context, shareURL, content string) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, shareURL, content string) error

func (f PersisterFunc) Submit(ctx context.Context, shareURL, content string) error {
	return f(ctx, shareURL, content)
}

// Outcome summarises a Submit call.
type Outcome struct {
	Valid     bool
	Submitted bool
	Errors    map[string]bool
	Snapshot  Snapshot
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEngine replaces the validation engine.
func WithEngine(engine *validation.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithID sets the session id. New sessions otherwise get a random id.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// Session is safe for concurrent use. Listeners registered with Subscribe are
// called outside the internal lock.
type Session struct {
	mu sync.Mutex

	id        string
	shareURL  string
	schema    []element.Instance
	index     map[string]element.Instance
	persister Persister
	engine    *validation.Engine
	logger    *slog.Logger

	state  State
	values map[string]string
	drafts map[string]string
	errors map[string]bool
	epoch  int64
	notice Notice

	listeners    map[int]func(Snapshot)
	nextListener int
}

// New starts a session in the Filling state.
func New(shareURL string, schema []element.Instance, persister Persister, options ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		shareURL:  shareURL,
		schema:    cloneSchema(schema),
		persister: persister,
		engine:    validation.NewEngine(),
		logger:    slog.Default(),
		state:     StateFilling,
		values:    map[string]string{},
		drafts:    map[string]string{},
		errors:    map[string]bool{},
		listeners: map[int]func(Snapshot){},
	}
	s.index = make(map[string]element.Instance, len(s.schema))
	for _, inst := range s.schema {
		s.index[inst.ID] = inst
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Restore rebuilds a session from a stored snapshot.
func Restore(snap Snapshot, schema []element.Instance, persister Persister, options ...Option) *Session {
	s := New(snap.ShareURL, schema, persister, append([]Option{WithID(snap.ID)}, options...)...)
	s.state = snap.State
	if s.state == "" {
		s.state = StateFilling
	}
	s.values = cloneStrings(snap.Values)
	s.drafts = cloneStrings(snap.Drafts)
	s.errors = cloneFlags(snap.Errors)
	s.epoch = snap.Epoch
	s.notice = snap.Notice
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Schema returns a copy of the instances the session validates against.
func (s *Session) Schema() []element.Instance {
	return cloneSchema(s.schema)
}

// Change records a value-changed event. Only the draft is updated.
func (s *Session) Change(id, raw string) error {
	s.mu.Lock()
	if err := s.acceptEventLocked(id); err != nil {
		s.mu.Unlock()
		return err
	}
	s.drafts[id] = raw
	s.mu.Unlock()
	return nil
}

// Blur validates raw for id, updates its error flag, and commits it to the
// entered values only when valid. The draft keeps raw either way.
func (s *Session) Blur(id, raw string) (bool, error) {
	s.mu.Lock()
	if err := s.acceptEventLocked(id); err != nil {
		s.mu.Unlock()
		return false, err
	}
	inst := s.index[id]
	valid := element.ValidateField(inst.Type, inst, raw)

	s.drafts[id] = raw
	if valid {
		s.values[id] = raw
		delete(s.errors, id)
	} else {
		s.errors[id] = true
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return valid, nil
}

// Submit validates the entered values and, when they pass, persists them. A
// validation failure is not an error: the returned Outcome carries the flags.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitted:
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return Outcome{Valid: true, Submitted: true, Snapshot: snap}, ErrSubmitted
	case StateSubmitting:
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return Outcome{Snapshot: snap}, ErrSubmitInFlight
	}

	s.state = StateSubmitting
	s.errors = map[string]bool{}
	s.notice = NoticeNone

	result := s.engine.Validate(s.schema, s.values)
	if !result.Valid {
		s.state = StateFilling
		s.errors = cloneFlags(result.Errors)
		s.epoch++
		// The new epoch discards the previous render, so drafts fall back to
		// the committed values and fields without one start empty.
		s.drafts = cloneStrings(s.values)
		s.notice = NoticeValidationFailed
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.publish(snap)
		return Outcome{Errors: cloneFlags(result.Errors), Snapshot: snap}, nil
	}

	content, err := json.Marshal(s.values)
	if err != nil {
		s.state = StateFilling
		s.mu.Unlock()
		return Outcome{Valid: true}, fmt.Errorf("session: encode values: %w", err)
	}
	shareURL := s.shareURL
	persister := s.persister
	pending := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(pending)

	if persister == nil {
		err = errors.New("no persister configured")
	} else {
		err = persister.Submit(ctx, shareURL, string(content))
	}

	s.mu.Lock()
	if err != nil {
		s.state = StateFilling
		s.notice = NoticeSubmitFailed
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.logger.Error("submission failed", "session", snap.ID, "share_url", shareURL, "error", err)
		s.publish(snap)
		return Outcome{Valid: true, Errors: map[string]bool{}, Snapshot: snap}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.state = StateSubmitted
	s.notice = NoticeSubmitted
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("submission stored", "session", snap.ID, "share_url", shareURL, "fields", len(snap.Values))
	s.publish(snap)
	return Outcome{Valid: true, Submitted: true, Errors: map[string]bool{}, Snapshot: snap}, nil
}

// Snapshot returns an immutable copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every published snapshot and returns a function
// that removes it.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	key := s.nextListener
	s.nextListener++
	s.listeners[key] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, key)
		s.mu.Unlock()
	}
}

// FieldState returns what a renderer needs to draw inst.
func (s *Session) FieldState(id string) element.FieldState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().FieldState(id)
}

func (s *Session) acceptEventLocked(id string) error {
	if s.state == StateSubmitted {
		return ErrSubmitted
	}
	if _, ok := s.index[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownElement, id)
	}
	return nil
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:       s.id,
		ShareURL: s.shareURL,
		State:    s.state,
		Values:   cloneStrings(s.values),
		Drafts:   cloneStrings(s.drafts),
		Errors:   cloneFlags(s.errors),
		Epoch:    s.epoch,
		Notice:   s.notice,
	}
}

func (s *Session) publish(snap Snapshot) {
	s.mu.Lock()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for i := 0; i < s.nextListener; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap.clone())
	}
}

func cloneSchema(in []element.Instance) []element.Instance {
	out := make([]element.Instance, len(in))
	for i, inst := range in {
		out[i] = inst.Clone()
	}
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneFlags(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		if v {
			out[k] = true
		}
	}
	return out
}
