package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses stored JSON content. Blank content decodes to an empty schema.
func Decode(data []byte) (Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Schema{}, nil
	}
	var out Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("schema: decode content: %w", err)
	}
	if out == nil {
		out = Schema{}
	}
	return out, nil
}

// DecodeString is Decode for string content as stored by the form store.
func DecodeString(content string) (Schema, error) {
	return Decode([]byte(content))
}

// DecodeYAML parses a YAML document with the same shape as the JSON content.
func DecodeYAML(data []byte) (Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Schema{}, nil
	}
	var generic []map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	normalised, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("schema: normalise yaml: %w", err)
	}
	return Decode(normalised)
}

// Parse tries JSON first and falls back to YAML.
func Parse(data []byte, source string) (Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Schema{}, nil
	}
	if json.Valid(data) {
		out, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("schema: parse %s: %w", source, err)
		}
		return out, nil
	}
	out, err := DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return out, nil
}

// Load reads a .json, .yaml or .yml file.
func Load(path string) (Schema, error) {
	if !IsSchemaFile(path) {
		return nil, fmt.Errorf("schema: unsupported file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// IsSchemaFile reports whether path has a supported extension.
func IsSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Encode writes s as stored JSON content. A nil schema encodes as "[]".
func Encode(s Schema) ([]byte, error) {
	if s == nil {
		s = Schema{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("schema: encode content: %w", err)
	}
	return data, nil
}

// EncodeString is Encode returning a string.
func EncodeString(s Schema) (string, error) {
	data, err := Encode(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeValues parses submitted content: a flat JSON object of element id to
// value. Non-string values are rendered with their JSON text.
func DecodeValues(content string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(content) == "" {
		return out, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("schema: decode values: %w", err)
	}
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			out[key] = s
			continue
		}
		out[key] = string(value)
	}
	return out, nil
}

// EncodeValues writes a value map as submitted content.
func EncodeValues(values map[string]string) (string, error) {
	if values == nil {
		values = map[string]string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("schema: encode values: %w", err)
	}
	return string(data), nil
}
