package export_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestContentSchema_ListsCatalog(t *testing.T) {
	raw, err := export.ContentSchemaJSON()
	if err != nil {
		t.Fatalf("content schema: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	if doc["type"] != "array" {
		t.Fatalf("expected array schema, got %v", doc["type"])
	}
	for _, fragment := range []string{`"SeperatorField"`, `"TextAreaField"`, `"extraAttributes"`, `"Form content"`} {
		if !strings.Contains(string(raw), fragment) {
			t.Fatalf("schema missing %s:\n%s", fragment, raw)
		}
	}
}

func TestSubmitDocument_DescribesValues(t *testing.T) {
	doc, err := export.SubmitDocument(context.Background(), "Survey", "share-1", testsupport.SampleSchema(t))
	if err != nil {
		t.Fatalf("submit document: %v", err)
	}
	item := doc.Paths.Value(export.SubmitPath)
	if item == nil || item.Patch == nil {
		t.Fatalf("expected PATCH %s", export.SubmitPath)
	}
	if item.Patch.OperationID != "submitForm" {
		t.Fatalf("unexpected operation id %q", item.Patch.OperationID)
	}

	values := export.ValuesSchema(testsupport.SampleSchema(t))
	var ids []string
	for id := range values.Properties {
		ids = append(ids, id)
	}
	if len(ids) != 5 {
		t.Fatalf("expected five value properties, got %v", ids)
	}
	if diff := cmp.Diff([]string{testsupport.NameID, testsupport.AgreeID}, values.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	colour := values.Properties[testsupport.ColourID].Value
	if diff := cmp.Diff([]any{"", "Red", "Green", "Blue"}, colour.Enum); diff != "" {
		t.Fatalf("colour enum mismatch (-want +got):\n%s", diff)
	}
	if _, ok := values.Properties[testsupport.TitleID]; ok {
		t.Fatalf("structural elements must not appear in the values schema")
	}
}

func TestSubmitDocumentJSON(t *testing.T) {
	raw, err := export.SubmitDocumentJSON(context.Background(), "", "share-1", testsupport.SampleSchema(t))
	if err != nil {
		t.Fatalf("submit document json: %v", err)
	}
	for _, fragment := range []string{`"openapi": "3.0.3"`, `"/api/submit"`, `"share-1"`, export.ValuesExtension, `"Form submission"`} {
		if !strings.Contains(string(raw), fragment) {
			t.Fatalf("document missing %s:\n%s", fragment, raw)
		}
	}
}

func TestSubmitDocument_RequiresShareURL(t *testing.T) {
	if _, err := export.SubmitDocument(context.Background(), "x", " ", nil); err == nil {
		t.Fatalf("expected error for blank share url")
	}
}
