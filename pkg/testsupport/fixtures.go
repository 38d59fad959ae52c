package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

// Element ids used by SampleSchema.
const (
	TitleID     = "title"
	IntroID     = "intro"
	NameID      = "name"
	AgeID       = "age"
	BioID       = "bio"
	ColourID    = "colour"
	AgreeID     = "agree"
	SpacerID    = "gap"
	SeperatorID = "rule"
)

// SampleContent is the stored JSON form of SampleSchema. Name and agree are
// required; every other value carrying element is optional.
const SampleContent = `[
  {"id":"title","type":"TitleField","extraAttributes":{"title":"Customer survey"}},
  {"id":"intro","type":"ParagraphField","extraAttributes":{"text":"Tell us about yourself."}},
  {"id":"name","type":"TextField","extraAttributes":{"label":"Name","helperText":"Your full name","required":true,"placeholder":"Jane Doe"}},
  {"id":"age","type":"NumberField","extraAttributes":{"label":"Age"}},
  {"id":"bio","type":"TextAreaField","extraAttributes":{"label":"Bio","rows":4}},
  {"id":"colour","type":"SelectField","extraAttributes":{"label":"Colour","option":["Red","Green","Blue"]}},
  {"id":"gap","type":"SpacerField","extraAttributes":{"space":40}},
  {"id":"agree","type":"Checkbox","extraAttributes":{"label":"I agree","required":true}},
  {"id":"rule","type":"SeperatorField"}
]`

// SampleSchema decodes SampleContent.
func SampleSchema(t testing.TB) []element.Instance {
	t.Helper()
	return MustDecodeInstances(t, []byte(SampleContent))
}

// MustDecodeInstances decodes a JSON array of instances or fails the test.
func MustDecodeInstances(t testing.TB, raw []byte) []element.Instance {
	t.Helper()

	var out []element.Instance
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode instances: %v", err)
	}
	return out
}

// WriteSchemaFile writes content to a temp file and returns its path.
func WriteSchemaFile(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write schema file: %v", err)
	}
	return path
}

// SubmitCall records one persister invocation.
type SubmitCall struct {
	ShareURL string
	Content  string
}

// StubPersister records submissions and returns Err when set. Block, when not
// nil, is waited on before returning so tests can observe in-flight state.
type StubPersister struct {
	mu    sync.Mutex
	Err   error
	Block chan struct{}
	calls []SubmitCall
}

// Submit satisfies the session persister contract.
func (p *StubPersister) Submit(ctx context.Context, shareURL, content string) error {
	p.mu.Lock()
	p.calls = append(p.calls, SubmitCall{ShareURL: shareURL, Content: content})
	block := p.Block
	err := p.Err
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// Calls returns a copy of the recorded submissions.
func (p *StubPersister) Calls() []SubmitCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SubmitCall(nil), p.calls...)
}

// SetErr changes the error returned by later calls.
func (p *StubPersister) SetErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Err = err
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
