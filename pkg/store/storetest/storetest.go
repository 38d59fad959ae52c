// Package storetest holds the behaviour every store.Store must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/store"
)

// Factory creates an empty Store for one subtest.
type Factory func(t *testing.T) store.Store

// RunStoreTests runs the complete Store suite against the provided factory.
func RunStoreTests(t *testing.T, factory Factory) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, factory) })
	t.Run("CreateInvalid", func(t *testing.T) { testCreateInvalid(t, factory) })
	t.Run("FormsNewestFirstPerOwner", func(t *testing.T) { testFormsNewestFirst(t, factory) })
	t.Run("UpdateContent", func(t *testing.T) { testUpdateContent(t, factory) })
	t.Run("PublishFreezesContent", func(t *testing.T) { testPublishFreezes(t, factory) })
	t.Run("SubmitRequiresPublished", func(t *testing.T) { testSubmitRequiresPublished(t, factory) })
	t.Run("SubmitCountsAndLists", func(t *testing.T) { testSubmitCounts(t, factory) })
	t.Run("VisitsAndStats", func(t *testing.T) { testVisitsAndStats(t, factory) })
	t.Run("DeleteCascadesAndChecksOwner", func(t *testing.T) { testDelete(t, factory) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, factory) })
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func mustCreate(t *testing.T, s store.Store, owner, name string) store.Form {
	t.Helper()
	form, err := s.CreateForm(ctx(t), owner, name, "description of "+name)
	if err != nil {
		t.Fatalf("create form %q: %v", name, err)
	}
	return form
}

func testCreateAndGet(t *testing.T, factory Factory) {
	s := factory(t)
	created := mustCreate(t, s, "owner-a", "Survey")

	if created.ID == 0 || created.ShareURL == "" {
		t.Fatalf("expected id and share url, got %+v", created)
	}
	if created.Content != store.EmptyContent || created.Published {
		t.Fatalf("unexpected defaults %+v", created)
	}

	got, err := s.Form(ctx(t), created.ID)
	if err != nil {
		t.Fatalf("get form: %v", err)
	}
	if got.Name != "Survey" || got.OwnerID != "owner-a" || got.ShareURL != created.ShareURL {
		t.Fatalf("unexpected form %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("created at not stored")
	}

	byShare, err := s.FormByShareURL(ctx(t), created.ShareURL)
	if err != nil {
		t.Fatalf("get by share url: %v", err)
	}
	if byShare.ID != created.ID {
		t.Fatalf("share lookup returned %d, want %d", byShare.ID, created.ID)
	}
}

func testCreateInvalid(t *testing.T, factory Factory) {
	s := factory(t)
	if _, err := s.CreateForm(ctx(t), "owner-a", "  ", ""); !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func testFormsNewestFirst(t *testing.T, factory Factory) {
	s := factory(t)
	first := mustCreate(t, s, "owner-a", "First")
	second := mustCreate(t, s, "owner-a", "Second")
	mustCreate(t, s, "owner-b", "Other")

	forms, err := s.Forms(ctx(t), "owner-a")
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
	if forms[0].ID != second.ID || forms[1].ID != first.ID {
		t.Fatalf("expected newest first, got ids %d,%d", forms[0].ID, forms[1].ID)
	}
}

func testUpdateContent(t *testing.T, factory Factory) {
	s := factory(t)
	form := mustCreate(t, s, "owner-a", "Survey")
	content := `[{"id":"a","type":"TextField","extraAttributes":{"label":"Name","helperText":"","required":true,"placeholder":""}}]`

	updated, err := s.UpdateContent(ctx(t), "owner-a", form.ID, content)
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if updated.Content != content {
		t.Fatalf("content not stored: %s", updated.Content)
	}

	if _, err := s.UpdateContent(ctx(t), "owner-b", form.ID, "[]"); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another owner, got %v", err)
	}
}

func testPublishFreezes(t *testing.T, factory Factory) {
	s := factory(t)
	form := mustCreate(t, s, "owner-a", "Survey")

	published, err := s.Publish(ctx(t), "owner-a", form.ID, `[]`)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.Published {
		t.Fatalf("expected published form")
	}
	if _, err := s.UpdateContent(ctx(t), "owner-a", form.ID, "[]"); !errors.Is(err, store.ErrPublished) {
		t.Fatalf("expected ErrPublished, got %v", err)
	}
	if _, err := s.Publish(ctx(t), "owner-a", form.ID, "[]"); !errors.Is(err, store.ErrPublished) {
		t.Fatalf("expected ErrPublished on republish, got %v", err)
	}
}

func testSubmitRequiresPublished(t *testing.T, factory Factory) {
	s := factory(t)
	form := mustCreate(t, s, "owner-a", "Survey")

	if err := s.Submit(ctx(t), form.ShareURL, `{"a":"1"}`); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unpublished form, got %v", err)
	}
	if err := s.Submit(ctx(t), "missing", `{}`); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown share url, got %v", err)
	}
}

func testSubmitCounts(t *testing.T, factory Factory) {
	s := factory(t)
	form := mustCreate(t, s, "owner-a", "Survey")
	if _, err := s.Publish(ctx(t), "owner-a", form.ID, "[]"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, content := range []string{`{"a":"1"}`, `{"a":"2"}`} {
		if err := s.Submit(ctx(t), form.ShareURL, content); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	got, err := s.Form(ctx(t), form.ID)
	if err != nil {
		t.Fatalf("get form: %v", err)
	}
	if got.Submissions != 2 {
		t.Fatalf("expected 2 submissions, got %d", got.Submissions)
	}

	subs, err := s.Submissions(ctx(t), form.ID)
	if err != nil {
		t.Fatalf("submissions: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submission rows, got %d", len(subs))
	}
	seen := map[string]bool{}
	for _, sub := range subs {
		if sub.FormID != form.ID || sub.CreatedAt.IsZero() {
			t.Fatalf("unexpected submission %+v", sub)
		}
		seen[sub.Content] = true
	}
	if !seen[`{"a":"1"}`] || !seen[`{"a":"2"}`] {
		t.Fatalf("submission contents missing: %v", seen)
	}
}

func testVisitsAndStats(t *testing.T, factory Factory) {
	s := factory(t)
	form := mustCreate(t, s, "owner-a", "Survey")
	if _, err := s.Publish(ctx(t), "owner-a", form.ID, "[]"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := s.RecordVisit(ctx(t), form.ID); err != nil {
			t.Fatalf("visit: %v", err)
		}
	}
	if err := s.Submit(ctx(t), form.ShareURL, `{}`); err != nil {
		t.Fatalf("submit: %v", err)
	}
	mustCreate(t, s, "owner-b", "Elsewhere")

	stats, err := s.Stats(ctx(t), "owner-a")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := store.Stats{Visits: 4, Submissions: 1, SubmissionRate: 25, BounceRate: 75}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	empty, err := s.Stats(ctx(t), "nobody")
	if err != nil {
		t.Fatalf("empty stats: %v", err)
	}
	if empty != (store.Stats{BounceRate: 100}) {
		t.Fatalf("unexpected empty stats %+v", empty)
	}
}

func testDelete(t *testing.T, factory Factory) {
	s := factory(t)
	form := mustCreate(t, s, "owner-a", "Survey")
	if _, err := s.Publish(ctx(t), "owner-a", form.ID, "[]"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := s.Submit(ctx(t), form.ShareURL, `{}`); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := s.DeleteForm(ctx(t), "owner-b", form.ID); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := s.DeleteForm(ctx(t), "owner-a", form.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Form(ctx(t), form.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	subs, err := s.Submissions(ctx(t), form.ID)
	if err != nil {
		t.Fatalf("submissions after delete: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected submissions to be deleted, got %d", len(subs))
	}
}

func testNotFound(t *testing.T, factory Factory) {
	s := factory(t)
	if _, err := s.Form(ctx(t), 424242); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.FormByShareURL(ctx(t), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.RecordVisit(ctx(t), 424242); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for visit, got %v", err)
	}
	if err := s.DeleteForm(ctx(t), "owner-a", 424242); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for delete, got %v", err)
	}
}
