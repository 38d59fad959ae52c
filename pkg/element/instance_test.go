package element_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

func TestInstanceJSON_OverlaysStoredAttributes(t *testing.T) {
	raw := []byte(`{"id":"a1","type":"TextField","extraAttributes":{"label":"Name","required":true}}`)

	var inst element.Instance
	if err := json.Unmarshal(raw, &inst); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := element.Instance{
		ID:   "a1",
		Type: element.TagTextField,
		Attributes: element.FieldAttributes{
			Label:       "Name",
			HelperText:  "Helper Text",
			Required:    true,
			Placeholder: "Value goes here",
		},
	}
	if diff := cmp.Diff(want, inst); diff != "" {
		t.Fatalf("instance mismatch (-want +got):\n%s", diff)
	}
}

func TestInstanceJSON_MissingAttributesUseDefaults(t *testing.T) {
	var inst element.Instance
	if err := json.Unmarshal([]byte(`{"id":"s1","type":"SpacerField"}`), &inst); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(element.SpacerAttributes{Space: 20}, inst.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestInstanceJSON_SelectOptionKey(t *testing.T) {
	raw := []byte(`{"id":"c","type":"SelectField","extraAttributes":{"label":"Colour","option":["red","blue"]}}`)
	var inst element.Instance
	if err := json.Unmarshal(raw, &inst); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	attrs, ok := inst.Attributes.(element.SelectAttributes)
	if !ok {
		t.Fatalf("expected SelectAttributes, got %T", inst.Attributes)
	}
	if diff := cmp.Diff([]string{"red", "blue"}, attrs.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(inst)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(out, &generic); err != nil {
		t.Fatalf("unmarshal generic: %v", err)
	}
	extra, _ := generic["extraAttributes"].(map[string]any)
	if _, ok := extra["option"]; !ok {
		t.Fatalf("expected option key in %s", out)
	}
	if generic["type"] != "SelectField" || generic["id"] != "c" {
		t.Fatalf("unexpected envelope %s", out)
	}
}

func TestInstanceJSON_UnknownTag(t *testing.T) {
	var inst element.Instance
	err := json.Unmarshal([]byte(`{"id":"x","type":"DateField"}`), &inst)
	if !errors.Is(err, element.ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestInstanceJSON_RoundTripPreservesSeperatorSpelling(t *testing.T) {
	inst, err := element.ConstructDefault(element.TagSeperatorField, "sep")
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	out, err := json.Marshal(inst)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"sep","type":"SeperatorField","extraAttributes":{"space":20}}`
	if string(out) != want {
		t.Fatalf("marshal mismatch\nwant: %s\n got: %s", want, out)
	}
}
