// Package element holds the closed catalog of form elements: the type tags,
// their typed attribute records, and one Definition per tag. Definitions
// describe how an element is constructed, validated, and presented; they never
// produce markup themselves. Renderers turn the returned View values into HTML
// or terminal prompts.
package element

// Tag identifies an element type. The set is closed and the string values are
// part of persisted data.
type Tag string

const (
	TagTextField      Tag = "TextField"
	TagTitleField     Tag = "TitleField"
	TagSubTitleField  Tag = "SubTitleField"
	TagParagraphField Tag = "ParagraphField"
	TagSpacerField    Tag = "SpacerField"
	// TagSeperatorField keeps the historical spelling used in stored forms.
	TagSeperatorField Tag = "SeperatorField"
	TagNumberField    Tag = "NumberField"
	TagTextAreaField  Tag = "TextAreaField"
	TagCheckbox       Tag = "Checkbox"
	TagSelectField    Tag = "SelectField"
)

var catalog = []Tag{
	TagTextField,
	TagTitleField,
	TagSubTitleField,
	TagParagraphField,
	TagSpacerField,
	TagSeperatorField,
	TagNumberField,
	TagTextAreaField,
	TagCheckbox,
	TagSelectField,
}

// Tags returns every element tag in catalog order.
func Tags() []Tag {
	out := make([]Tag, len(catalog))
	copy(out, catalog)
	return out
}

// Valid reports whether t belongs to the catalog.
func (t Tag) Valid() bool {
	for _, candidate := range catalog {
		if candidate == t {
			return true
		}
	}
	return false
}

func (t Tag) String() string {
	return string(t)
}
