package element_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

func TestRegistry_EveryTagHasDefinition(t *testing.T) {
	for _, tag := range element.Tags() {
		def, err := element.Lookup(tag)
		if err != nil {
			t.Fatalf("lookup %s: %v", tag, err)
		}
		if def.Tag() != tag {
			t.Fatalf("definition for %s reports tag %s", tag, def.Tag())
		}
		inst := def.Construct("el-1")
		if inst.ID != "el-1" || inst.Type != tag {
			t.Fatalf("construct %s: got id=%q type=%q", tag, inst.ID, inst.Type)
		}
		if inst.Attributes == nil {
			t.Fatalf("construct %s: attributes missing", tag)
		}
	}
}

func TestRegistry_DefinitionsInCatalogOrder(t *testing.T) {
	var got []element.Tag
	for _, def := range element.Definitions() {
		got = append(got, def.Tag())
	}
	want := []element.Tag{
		element.TagTextField,
		element.TagTitleField,
		element.TagSubTitleField,
		element.TagParagraphField,
		element.TagSpacerField,
		element.TagSeperatorField,
		element.TagNumberField,
		element.TagTextAreaField,
		element.TagCheckbox,
		element.TagSelectField,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("definition order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_UnknownTag(t *testing.T) {
	if _, err := element.Lookup("DateField"); !errors.Is(err, element.ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	if _, err := element.ConstructDefault("DateField", "x"); !errors.Is(err, element.ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag from ConstructDefault, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustLookup to panic on unknown tag")
		}
	}()
	element.MustLookup("DateField")
}

func TestConstructDefault_Attributes(t *testing.T) {
	tests := []struct {
		tag  element.Tag
		want element.Attributes
	}{
		{element.TagTextField, element.FieldAttributes{Label: "Text Field", HelperText: "Helper Text", Placeholder: "Value goes here"}},
		{element.TagNumberField, element.FieldAttributes{Label: "Number Field", HelperText: "Helper Text", Placeholder: "Value goes here"}},
		{element.TagTextAreaField, element.TextAreaAttributes{
			FieldAttributes: element.FieldAttributes{Label: "Text Area", HelperText: "Helper Text", Placeholder: "Value goes here"},
			Rows:            3,
		}},
		{element.TagSelectField, element.SelectAttributes{
			FieldAttributes: element.FieldAttributes{Label: "Select Field", HelperText: "Helper Text", Placeholder: "Value goes here"},
			Options:         []string{""},
		}},
		{element.TagCheckbox, element.CheckboxAttributes{Label: "Checkbox Field", HelperText: "Helper Text"}},
		{element.TagTitleField, element.TitleAttributes{Title: "Title Field"}},
		{element.TagSubTitleField, element.TitleAttributes{Title: "Sub-Title Field"}},
		{element.TagParagraphField, element.ParagraphAttributes{Text: "Paragraph Text"}},
		{element.TagSpacerField, element.SpacerAttributes{Space: 20}},
		{element.TagSeperatorField, element.SpacerAttributes{Space: 20}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			inst, err := element.ConstructDefault(tt.tag, "id")
			if err != nil {
				t.Fatalf("construct: %v", err)
			}
			if diff := cmp.Diff(tt.want, inst.Attributes); diff != "" {
				t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNew_AssignsUniqueIDs(t *testing.T) {
	a, err := element.New(element.TagTextField)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := element.New(element.TagTextField)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

func TestPalette(t *testing.T) {
	palette := element.Palette()
	if len(palette) != len(element.Tags()) {
		t.Fatalf("expected %d palette entries, got %d", len(element.Tags()), len(palette))
	}
	first := palette[0]
	if first.Type != element.TagTextField || first.Icon != "/Textfield.svg" || first.Label != "TextField" {
		t.Fatalf("unexpected first palette entry %+v", first)
	}
}

func TestSubmittable(t *testing.T) {
	submittable := map[element.Tag]bool{
		element.TagTextField:     true,
		element.TagNumberField:   true,
		element.TagTextAreaField: true,
		element.TagSelectField:   true,
		element.TagCheckbox:      true,
	}
	for _, def := range element.Definitions() {
		if got := def.Submittable(); got != submittable[def.Tag()] {
			t.Fatalf("%s submittable = %v", def.Tag(), got)
		}
	}
}
