package element_test

import (
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

func required(t *testing.T, tag element.Tag) element.Instance {
	t.Helper()
	inst, err := element.ConstructDefault(tag, "f")
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	def := element.MustLookup(tag)
	inst, err = def.Apply(inst, element.Edits{"required": {"on"}})
	if err != nil {
		t.Fatalf("apply required: %v", err)
	}
	if !inst.Required() && def.Submittable() {
		t.Fatalf("%s: expected required after apply", tag)
	}
	return inst
}

func TestValidate_OptionalEmptyIsValid(t *testing.T) {
	for _, def := range element.Definitions() {
		inst := def.Construct("f")
		if !def.Validate(inst, "") {
			t.Fatalf("%s: optional empty value should be valid", def.Tag())
		}
	}
}

func TestValidate_RequiredTrimmed(t *testing.T) {
	tags := []element.Tag{
		element.TagTextField,
		element.TagNumberField,
		element.TagTextAreaField,
		element.TagSelectField,
	}
	for _, tag := range tags {
		inst := required(t, tag)
		cases := map[string]bool{
			"":     false,
			"   ":  false,
			"\t\n": false,
			"x":    true,
			" x ":  true,
		}
		for value, want := range cases {
			if got := element.ValidateField(tag, inst, value); got != want {
				t.Fatalf("%s: validate(%q) = %v, want %v", tag, value, got, want)
			}
		}
	}
}

// A required checkbox only rejects the empty string; whitespace is accepted.
func TestValidate_CheckboxUsesRawLength(t *testing.T) {
	inst := required(t, element.TagCheckbox)
	if element.ValidateField(element.TagCheckbox, inst, "") {
		t.Fatalf("required checkbox must reject empty value")
	}
	if !element.ValidateField(element.TagCheckbox, inst, " ") {
		t.Fatalf("required checkbox must accept a single space")
	}
	if !element.ValidateField(element.TagCheckbox, inst, "true") {
		t.Fatalf("required checkbox must accept a checked value")
	}
}

func TestValidate_StructuralAlwaysValid(t *testing.T) {
	tags := []element.Tag{
		element.TagTitleField,
		element.TagSubTitleField,
		element.TagParagraphField,
		element.TagSpacerField,
		element.TagSeperatorField,
	}
	for _, tag := range tags {
		def := element.MustLookup(tag)
		inst := def.Construct("s")
		for _, value := range []string{"", " ", "anything"} {
			if !def.Validate(inst, value) {
				t.Fatalf("%s: structural element rejected %q", tag, value)
			}
		}
		if inst.Required() {
			t.Fatalf("%s: structural element must not be required", tag)
		}
	}
}

func TestRules(t *testing.T) {
	if !element.RequireTrimmed(false, "") || element.RequireTrimmed(true, " ") {
		t.Fatalf("RequireTrimmed mismatch")
	}
	if !element.RequireRaw(true, " ") || element.RequireRaw(true, "") {
		t.Fatalf("RequireRaw mismatch")
	}
	if !element.AlwaysValid(true, "") {
		t.Fatalf("AlwaysValid mismatch")
	}
}
