package jsonview_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/jsonview"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type decoded struct {
	Page   string            `json:"page"`
	Title  string            `json:"title"`
	Hidden map[string]string `json:"hidden"`
	Data   json.RawMessage   `json:"data"`
}

func renderDoc(t *testing.T, page render.Page, opts render.RenderOptions) decoded {
	t.Helper()
	out, err := jsonview.New().Render(context.Background(), page, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var doc decoded
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	return doc
}

func TestRender_FillInCarriesSnapshotAndViews(t *testing.T) {
	s := session.New("share", testsupport.SampleSchema(t), nil, session.WithID("sess-9"))
	if _, err := s.Blur(testsupport.NameID, "Ada"); err != nil {
		t.Fatalf("blur: %v", err)
	}

	doc := renderDoc(t, render.FillInPage{Title: "Survey", Session: s}, render.RenderOptions{})
	if doc.Page != "fillin" || doc.Title != "Survey" {
		t.Fatalf("unexpected header %+v", doc)
	}
	if doc.Hidden[render.SessionFieldName] != "sess-9" {
		t.Fatalf("expected session hidden field, got %v", doc.Hidden)
	}

	var data struct {
		Session   session.Snapshot `json:"session"`
		CanSubmit bool             `json:"canSubmit"`
		Elements  []struct {
			ID       string         `json:"id"`
			Template string         `json:"template"`
			Data     map[string]any `json:"data"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(doc.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !data.CanSubmit || data.Session.Values[testsupport.NameID] != "Ada" {
		t.Fatalf("unexpected data %+v", data)
	}
	if len(data.Elements) != len(testsupport.SampleSchema(t)) {
		t.Fatalf("expected one view per element, got %d", len(data.Elements))
	}
	name := data.Elements[2]
	if name.ID != testsupport.NameID || name.Template != "elements/input_fillin" || name.Data["name"] != "name@0" {
		t.Fatalf("unexpected name view %+v", name)
	}
}

func TestRender_SubmissionsTable(t *testing.T) {
	table := render.SubmissionTable{
		Columns: []render.Column{{ID: "name", Label: "Name", Type: "TextField"}},
		Rows:    []render.SubmissionRow{},
	}
	doc := renderDoc(t, render.SubmissionsPage{Name: "Survey", Table: table}, render.RenderOptions{})

	var got render.SubmissionTable
	if err := json.Unmarshal(doc.Data, &got); err != nil {
		t.Fatalf("decode table: %v", err)
	}
	if diff := cmp.Diff(table, got); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RequiresSession(t *testing.T) {
	_, err := jsonview.New().Render(context.Background(), render.FillInPage{}, render.RenderOptions{})
	if !errors.Is(err, render.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
