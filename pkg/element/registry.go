package element

import "fmt"

// registry is built once from the catalog and never mutated afterwards.
var registry = buildRegistry()

func buildRegistry() map[Tag]Definition {
	out := make(map[Tag]Definition, len(catalog))
	for _, tag := range catalog {
		def := definitionFor(tag)
		if def == nil || def.Tag() != tag {
			panic(fmt.Sprintf("element: no definition registered for %q", tag))
		}
		out[tag] = def
	}
	return out
}

// definitionFor maps every tag to its Definition. Adding a tag to the catalog
// without a case here fails at package initialisation.
func definitionFor(tag Tag) Definition {
	switch tag {
	case TagTextField:
		return textField{}
	case TagTitleField:
		return titleField{}
	case TagSubTitleField:
		return subTitleField{}
	case TagParagraphField:
		return paragraphField{}
	case TagSpacerField:
		return spacerField{}
	case TagSeperatorField:
		return seperatorField{}
	case TagNumberField:
		return numberField{}
	case TagTextAreaField:
		return textAreaField{}
	case TagCheckbox:
		return checkboxField{}
	case TagSelectField:
		return selectField{}
	default:
		return nil
	}
}

// Lookup returns the Definition registered for tag.
func Lookup(tag Tag) (Definition, error) {
	def, ok := registry[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, string(tag))
	}
	return def, nil
}

// MustLookup panics when tag is not registered. Use it where an unknown tag is a
// programming error.
func MustLookup(tag Tag) Definition {
	def, err := Lookup(tag)
	if err != nil {
		panic(err)
	}
	return def
}

// Definitions lists every Definition in catalog order.
func Definitions() []Definition {
	out := make([]Definition, 0, len(catalog))
	for _, tag := range catalog {
		out = append(out, registry[tag])
	}
	return out
}

// ConstructDefault builds a default instance of tag with the given id.
func ConstructDefault(tag Tag, id string) (Instance, error) {
	def, err := Lookup(tag)
	if err != nil {
		return Instance{}, err
	}
	return def.Construct(id), nil
}

// ValidateField validates value against inst using the Definition for tag.
func ValidateField(tag Tag, inst Instance, value string) bool {
	return MustLookup(tag).Validate(inst, value)
}

// Palette returns the designer buttons in catalog order.
func Palette() []PaletteEntry {
	out := make([]PaletteEntry, 0, len(catalog))
	for _, def := range Definitions() {
		out = append(out, PaletteEntry{Type: def.Tag(), Button: def.Button()})
	}
	return out
}

// PaletteEntry pairs a tag with its designer button.
type PaletteEntry struct {
	Type Tag `json:"type"`
	Button
}
