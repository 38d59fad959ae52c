package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func TestValidate_FullPassWithoutShortCircuit(t *testing.T) {
	schema := testsupport.SampleSchema(t)
	result := validation.Validate(schema, map[string]string{})

	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	want := []string{testsupport.AgreeID, testsupport.NameID}
	if diff := cmp.Diff(want, result.Failed()); diff != "" {
		t.Fatalf("failed ids mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_AllRequiredFilled(t *testing.T) {
	schema := testsupport.SampleSchema(t)
	result := validation.Validate(schema, map[string]string{
		testsupport.NameID:  "Ada",
		testsupport.AgreeID: "true",
	})
	if !result.Valid || len(result.Errors) != 0 {
		t.Fatalf("expected valid result, got %+v", result)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	schema := testsupport.SampleSchema(t)
	values := map[string]string{testsupport.NameID: "  "}

	first := validation.Validate(schema, values)
	second := validation.Validate(schema, values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ between passes (-first +second):\n%s", diff)
	}
	if !first.Invalid(testsupport.NameID) {
		t.Fatalf("whitespace name should be invalid")
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	result := validation.Validate(nil, map[string]string{"orphan": "x"})
	if !result.Valid {
		t.Fatalf("empty schema must be valid")
	}
}

func TestEngine_VisitsEveryElement(t *testing.T) {
	schema := testsupport.SampleSchema(t)
	var visited []string
	engine := validation.NewEngine(validation.WithLookup(func(tag element.Tag) element.Definition {
		return recordingDefinition{Definition: element.MustLookup(tag), visited: &visited}
	}))

	engine.Validate(schema, nil)

	var want []string
	for _, inst := range schema {
		want = append(want, inst.ID)
	}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}

type recordingDefinition struct {
	element.Definition
	visited *[]string
}

func (d recordingDefinition) Validate(inst element.Instance, value string) bool {
	*d.visited = append(*d.visited, inst.ID)
	return d.Definition.Validate(inst, value)
}
