package element_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

func TestApply_SanitizesAndLeavesInputUntouched(t *testing.T) {
	def := element.MustLookup(element.TagTextField)
	before := def.Construct("t")

	after, err := def.Apply(before, element.Edits{
		"label":       {"<b>Full name</b>"},
		"helperText":  {"Tom & Jerry<script>alert(1)</script>"},
		"placeholder": {"Jane"},
		"required":    {"on"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	want := element.FieldAttributes{
		Label:       "Full name",
		HelperText:  "Tom & Jerry",
		Required:    true,
		Placeholder: "Jane",
	}
	if diff := cmp.Diff(want, after.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if before.Attributes.(element.FieldAttributes).Label != "Text Field" {
		t.Fatalf("apply mutated the input instance")
	}
}

func TestApply_UncheckedRequiredClears(t *testing.T) {
	def := element.MustLookup(element.TagCheckbox)
	inst, err := def.Apply(def.Construct("c"), element.Edits{"required": {"on"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	inst, err = def.Apply(inst, element.Edits{"label": {"Agree"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if inst.Required() {
		t.Fatalf("expected required to be cleared when the box is not posted")
	}
	if inst.Label() != "Agree" {
		t.Fatalf("expected label Agree, got %q", inst.Label())
	}
}

func TestApply_SelectOptions(t *testing.T) {
	def := element.MustLookup(element.TagSelectField)
	before := def.Construct("s")
	after, err := def.Apply(before, element.Edits{"option": {"Red", "<i>Blue</i>", ""}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	attrs := after.Attributes.(element.SelectAttributes)
	if diff := cmp.Diff([]string{"Red", "Blue", ""}, attrs.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	view := def.FillIn(after, element.FieldState{})
	if diff := cmp.Diff([]string{"Red", "Blue"}, view.Data["options"]); diff != "" {
		t.Fatalf("fill-in options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{""}, before.Attributes.(element.SelectAttributes).Options); diff != "" {
		t.Fatalf("input options mutated (-want +got):\n%s", diff)
	}
}

func TestApply_SpacerClampsAndRejectsGarbage(t *testing.T) {
	def := element.MustLookup(element.TagSpacerField)
	inst := def.Construct("sp")

	got, err := def.Apply(inst, element.Edits{"space": {"500"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if space := got.Attributes.(element.SpacerAttributes).Space; space != 200 {
		t.Fatalf("expected clamp to 200, got %d", space)
	}

	if _, err := def.Apply(inst, element.Edits{"space": {"tall"}}); !errors.Is(err, element.ErrInvalidEdit) {
		t.Fatalf("expected ErrInvalidEdit, got %v", err)
	}
}

func TestApply_TextAreaRows(t *testing.T) {
	def := element.MustLookup(element.TagTextAreaField)
	got, err := def.Apply(def.Construct("ta"), element.Edits{"rows": {"0"}, "label": {"Bio"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	attrs := got.Attributes.(element.TextAreaAttributes)
	if attrs.Rows != 1 || attrs.Label != "Bio" {
		t.Fatalf("unexpected attributes %+v", attrs)
	}
}

func TestApply_SeperatorHasNoProperties(t *testing.T) {
	def := element.MustLookup(element.TagSeperatorField)
	inst := def.Construct("sep")
	got, err := def.Apply(inst, element.Edits{"space": {"80"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff(inst, got); diff != "" {
		t.Fatalf("seperator changed (-want +got):\n%s", diff)
	}
	if view := def.Properties(inst); view.Template != "elements/none_properties" {
		t.Fatalf("unexpected properties template %q", view.Template)
	}
}

func TestApply_TypeMismatch(t *testing.T) {
	title := element.MustLookup(element.TagTitleField).Construct("t")
	if _, err := element.MustLookup(element.TagTextField).Apply(title, nil); !errors.Is(err, element.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestFillInView_CarriesState(t *testing.T) {
	def := element.MustLookup(element.TagTextField)
	inst := def.Construct("name")
	view := def.FillIn(inst, element.FieldState{Value: "Ada", Invalid: true, Epoch: 3})

	if view.Template != "elements/input_fillin" {
		t.Fatalf("unexpected template %q", view.Template)
	}
	checks := map[string]any{
		"value":     "Ada",
		"invalid":   true,
		"epoch":     "3",
		"name":      "name@3",
		"inputType": "text",
		"label":     "Text Field",
	}
	for key, want := range checks {
		if diff := cmp.Diff(want, view.Data[key]); diff != "" {
			t.Fatalf("data[%q] mismatch (-want +got):\n%s", key, diff)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"plain":                   "plain",
		"<a href='x'>link</a>":    "link",
		"<img src=x onerror=y>ok": "ok",
	}
	for in, want := range cases {
		if got := element.SanitizeText(in); got != want {
			t.Fatalf("SanitizeText(%q) = %q, want %q", in, got, want)
		}
	}
}
