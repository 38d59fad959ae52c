package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Transformer rewrites a checked schema before it is rendered.
type Transformer interface {
	Transform(ctx context.Context, form schema.Schema) (schema.Schema, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form schema.Schema) (schema.Schema, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form schema.Schema) (schema.Schema, error) {
	if fn == nil {
		return form, nil
	}
	return fn(ctx, form)
}

// JSONPresetTransformer applies declarative attribute patches loaded from a
// JSON document:
//
//	{
//	  "elements": {
//	    "name": {"label": "Full name", "required": true}
//	  },
//	  "remove": ["gap"]
//	}
//
// Patch keys are merged into the element's extraAttributes and decoded with
// the element's own rules, so unknown keys are ignored.
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Elements map[string]map[string]any `json:"elements"`
	Remove   []string                  `json:"remove"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform returns a patched copy of form. Patches naming a missing element
// are an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, form schema.Schema) (schema.Schema, error) {
	out := append(schema.Schema(nil), form...)
	for id, patch := range t.document.Elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inst, ok := out.Find(id)
		if !ok {
			return nil, fmt.Errorf("json preset transformer: element %q not found", id)
		}
		patched, err := patchAttributes(inst, patch)
		if err != nil {
			return nil, fmt.Errorf("json preset transformer: element %q: %w", id, err)
		}
		out, _ = out.Replace(patched)
	}
	for _, id := range t.document.Remove {
		out = out.Remove(id)
	}
	return out, nil
}

func patchAttributes(inst element.Instance, patch map[string]any) (element.Instance, error) {
	raw, err := json.Marshal(inst)
	if err != nil {
		return inst, err
	}
	var stored struct {
		ID              string         `json:"id"`
		Type            element.Tag    `json:"type"`
		ExtraAttributes map[string]any `json:"extraAttributes"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return inst, err
	}
	if stored.ExtraAttributes == nil {
		stored.ExtraAttributes = make(map[string]any, len(patch))
	}
	for key, value := range patch {
		stored.ExtraAttributes[key] = value
	}

	raw, err = json.Marshal(stored)
	if err != nil {
		return inst, err
	}
	var out element.Instance
	if err := json.Unmarshal(raw, &out); err != nil {
		return inst, err
	}
	return out, nil
}
