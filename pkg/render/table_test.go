package render_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestBuildSubmissionTable(t *testing.T) {
	s := schema.Schema(testsupport.SampleSchema(t))
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	table, err := render.BuildSubmissionTable(s, []store.Submission{
		{ID: 1, FormID: 9, Content: `{"name":"Ada","agree":"on","gone":"x"}`, CreatedAt: at},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	wantColumns := []render.Column{
		{ID: testsupport.NameID, Label: "Name", Type: "TextField"},
		{ID: testsupport.AgeID, Label: "Age", Type: "NumberField"},
		{ID: testsupport.BioID, Label: "Bio", Type: "TextAreaField"},
		{ID: testsupport.ColourID, Label: "Colour", Type: "SelectField"},
		{ID: testsupport.AgreeID, Label: "I agree", Type: "Checkbox"},
	}
	if diff := cmp.Diff(wantColumns, table.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	wantRows := []render.SubmissionRow{
		{ID: 1, SubmittedAt: at, Cells: []string{"Ada", "", "", "", "on"}},
	}
	if diff := cmp.Diff(wantRows, table.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSubmissionTable_BadContent(t *testing.T) {
	s := schema.Schema(testsupport.SampleSchema(t))
	if _, err := render.BuildSubmissionTable(s, []store.Submission{{ID: 2, Content: "not json"}}); err == nil {
		t.Fatalf("expected decode error")
	}
}
