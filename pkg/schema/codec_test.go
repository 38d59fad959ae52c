package schema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestDecode_Blank(t *testing.T) {
	for _, input := range []string{"", "  ", "[]", "null"} {
		got, err := schema.DecodeString(input)
		if err != nil {
			t.Fatalf("decode %q: %v", input, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("decode %q: expected empty schema, got %#v", input, got)
		}
	}
}

func TestDecode_UnknownTag(t *testing.T) {
	_, err := schema.DecodeString(`[{"id":"a","type":"Signature"}]`)
	if !errors.Is(err, element.ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestDecodeYAML_MatchesJSON(t *testing.T) {
	yamlDoc := []byte(`
- id: title
  type: TitleField
  extraAttributes:
    title: Customer survey
- id: name
  type: TextField
  extraAttributes:
    label: Name
    required: true
- id: colour
  type: SelectField
  extraAttributes:
    option: [Red, Blue]
`)
	fromYAML, err := schema.DecodeYAML(yamlDoc)
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	fromJSON, err := schema.DecodeString(`[
  {"id":"title","type":"TitleField","extraAttributes":{"title":"Customer survey"}},
  {"id":"name","type":"TextField","extraAttributes":{"label":"Name","required":true}},
  {"id":"colour","type":"SelectField","extraAttributes":{"option":["Red","Blue"]}}
]`)
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("yaml decode mismatch (-json +yaml):\n%s", diff)
	}
}

func TestLoad_FileExtensions(t *testing.T) {
	path := testsupport.WriteSchemaFile(t, "form.json", testsupport.SampleContent)
	got, err := schema.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 9 {
		t.Fatalf("expected 9 instances, got %d", len(got))
	}

	if _, err := schema.Load(testsupport.WriteSchemaFile(t, "form.txt", "[]")); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestEncode_Nil(t *testing.T) {
	got, err := schema.EncodeString(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestValues(t *testing.T) {
	content, err := schema.EncodeValues(map[string]string{"b": "2", "a": "1"})
	if err != nil {
		t.Fatalf("encode values: %v", err)
	}
	if content != `{"a":"1","b":"2"}` {
		t.Fatalf("unexpected content %s", content)
	}

	got, err := schema.DecodeValues(`{"a":"1","n":3,"flag":true}`)
	if err != nil {
		t.Fatalf("decode values: %v", err)
	}
	want := map[string]string{"a": "1", "n": "3", "flag": "true"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ReplaceAndSubmittable(t *testing.T) {
	s := schema.Schema(testsupport.SampleSchema(t))

	name, ok := s.Find(testsupport.NameID)
	if !ok {
		t.Fatalf("name not found")
	}
	edited, err := element.MustLookup(name.Type).Apply(name, element.Edits{"label": {"Full name"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	replaced, ok := s.Replace(edited)
	if !ok {
		t.Fatalf("replace reported missing id")
	}
	if got, _ := replaced.Find(testsupport.NameID); got.Label() != "Full name" {
		t.Fatalf("replace did not swap instance")
	}
	if orig, _ := s.Find(testsupport.NameID); orig.Label() != "Name" {
		t.Fatalf("replace mutated the receiver")
	}

	var ids []string
	for _, inst := range s.Submittable() {
		ids = append(ids, inst.ID)
	}
	want := []string{testsupport.NameID, testsupport.AgeID, testsupport.BioID, testsupport.ColourID, testsupport.AgreeID}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("submittable mismatch (-want +got):\n%s", diff)
	}

	if _, ok := s.Replace(element.MustLookup(element.TagTextField).Construct("missing")); ok {
		t.Fatalf("expected replace of unknown id to report false")
	}
}
