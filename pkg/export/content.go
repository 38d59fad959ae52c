// Package export describes forms to other tools: a JSON Schema for stored form
// content and an OpenAPI document for submitting one published form.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

// StoredElement is the persisted shape of one element instance.
type StoredElement struct {
	ID              string         `json:"id" jsonschema:"minLength=1"`
	Type            string         `json:"type"`
	ExtraAttributes map[string]any `json:"extraAttributes,omitempty"`
}

// JSONSchemaExtend restricts type to the element catalog.
func (StoredElement) JSONSchemaExtend(s *jsonschema.Schema) {
	if s.Properties == nil {
		return
	}
	prop, ok := s.Properties.Get("type")
	if !ok || prop == nil {
		return
	}
	prop.Enum = nil
	for _, tag := range element.Tags() {
		prop.Enum = append(prop.Enum, string(tag))
	}
}

// Content is the stored form content: an ordered element list.
type Content []StoredElement

// ContentSchema reflects Content into a JSON Schema document.
func ContentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(new(Content))
	s.Title = "Form content"
	s.Description = "Ordered list of form elements as stored by the form builder."
	return s
}

// ContentSchemaJSON renders ContentSchema as indented JSON.
func ContentSchemaJSON() ([]byte, error) {
	out, err := json.MarshalIndent(ContentSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode content schema: %w", err)
	}
	return out, nil
}
