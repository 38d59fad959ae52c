package element

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Instance is one placed element of a form. ID is opaque and never changes once
// assigned; Attributes always holds the record type selected by Type.
type Instance struct {
	ID         string
	Type       Tag
	Attributes Attributes
}

type wireInstance struct {
	ID              string          `json:"id"`
	Type            Tag             `json:"type"`
	ExtraAttributes json.RawMessage `json:"extraAttributes,omitempty"`
}

// New constructs a default instance of tag with a freshly generated id.
func New(tag Tag) (Instance, error) {
	return ConstructDefault(tag, uuid.NewString())
}

// Clone returns a copy that shares no mutable state with i.
func (i Instance) Clone() Instance {
	if attrs, ok := i.Attributes.(SelectAttributes); ok {
		attrs.Options = append([]string(nil), attrs.Options...)
		i.Attributes = attrs
	}
	return i
}

// Required reports whether the instance demands a value.
func (i Instance) Required() bool {
	return Required(i.Attributes)
}

// Label returns the user facing label, or "" for structural elements.
func (i Instance) Label() string {
	return Label(i.Attributes)
}

// MarshalJSON writes the {"id","type","extraAttributes"} shape used by stored
// forms.
func (i Instance) MarshalJSON() ([]byte, error) {
	attrs, err := json.Marshal(i.Attributes)
	if err != nil {
		return nil, fmt.Errorf("element: encode %s attributes: %w", i.Type, err)
	}
	return json.Marshal(wireInstance{
		ID:              i.ID,
		Type:            i.Type,
		ExtraAttributes: attrs,
	})
}

// UnmarshalJSON rebuilds the default attributes for the stored tag and overlays
// the stored attribute object on top, so missing keys keep their defaults.
func (i *Instance) UnmarshalJSON(data []byte) error {
	var wire wireInstance
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("element: decode instance: %w", err)
	}

	def, err := Lookup(wire.Type)
	if err != nil {
		return fmt.Errorf("element: decode instance %q: %w", wire.ID, err)
	}

	inst := def.Construct(wire.ID)
	if len(wire.ExtraAttributes) > 0 && string(wire.ExtraAttributes) != "null" {
		attrs, err := overlay(inst.Attributes, wire.ExtraAttributes)
		if err != nil {
			return fmt.Errorf("element: decode %s attributes for %q: %w", wire.Type, wire.ID, err)
		}
		inst.Attributes = attrs
	}

	*i = inst
	return nil
}

func overlay(base Attributes, raw json.RawMessage) (Attributes, error) {
	switch attrs := base.(type) {
	case FieldAttributes:
		return overlayInto(attrs, raw)
	case TextAreaAttributes:
		return overlayInto(attrs, raw)
	case SelectAttributes:
		return overlayInto(attrs, raw)
	case CheckboxAttributes:
		return overlayInto(attrs, raw)
	case TitleAttributes:
		return overlayInto(attrs, raw)
	case ParagraphAttributes:
		return overlayInto(attrs, raw)
	case SpacerAttributes:
		return overlayInto(attrs, raw)
	default:
		return nil, fmt.Errorf("element: unsupported attribute record %T", base)
	}
}

func overlayInto[T Attributes](base T, raw json.RawMessage) (Attributes, error) {
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, err
	}
	return base, nil
}
