package element

// Attributes is the per-tag attribute record carried by an Instance. The set of
// implementations is closed: each tag selects exactly one record type.
type Attributes interface {
	attributes()
}

// FieldAttributes describes single value inputs (text and number fields).
type FieldAttributes struct {
	Label       string `json:"label"`
	HelperText  string `json:"helperText"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder"`
}

// TextAreaAttributes extends FieldAttributes with the visible row count.
type TextAreaAttributes struct {
	FieldAttributes
	Rows int `json:"rows"`
}

// SelectAttributes extends FieldAttributes with the option list. The JSON key is
// singular to stay compatible with stored forms.
type SelectAttributes struct {
	FieldAttributes
	Options []string `json:"option"`
}

// CheckboxAttributes has no placeholder.
type CheckboxAttributes struct {
	Label      string `json:"label"`
	HelperText string `json:"helperText"`
	Required   bool   `json:"required"`
}

// TitleAttributes is shared by titles and sub-titles.
type TitleAttributes struct {
	Title string `json:"title"`
}

type ParagraphAttributes struct {
	Text string `json:"text"`
}

// SpacerAttributes is shared by spacers and separators; Space is in pixels.
type SpacerAttributes struct {
	Space int `json:"space"`
}

func (FieldAttributes) attributes()     {}
func (TextAreaAttributes) attributes()  {}
func (SelectAttributes) attributes()    {}
func (CheckboxAttributes) attributes()  {}
func (TitleAttributes) attributes()     {}
func (ParagraphAttributes) attributes() {}
func (SpacerAttributes) attributes()    {}

// Required reports whether the attribute record marks the element as required.
// Structural records are never required.
func Required(attrs Attributes) bool {
	switch a := attrs.(type) {
	case FieldAttributes:
		return a.Required
	case TextAreaAttributes:
		return a.Required
	case SelectAttributes:
		return a.Required
	case CheckboxAttributes:
		return a.Required
	default:
		return false
	}
}

// Label returns the user facing label of value carrying records, or "".
func Label(attrs Attributes) string {
	switch a := attrs.(type) {
	case FieldAttributes:
		return a.Label
	case TextAreaAttributes:
		return a.Label
	case SelectAttributes:
		return a.Label
	case CheckboxAttributes:
		return a.Label
	default:
		return ""
	}
}
