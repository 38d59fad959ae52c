package element

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrUnknownTag is returned when a tag has no registered Definition.
	ErrUnknownTag = errors.New("element: unknown element type")
	// ErrInvalidEdit signals a properties edit that cannot be parsed.
	ErrInvalidEdit = errors.New("element: invalid property edit")
	// ErrTypeMismatch is returned when an instance is handed to the Definition of
	// another tag.
	ErrTypeMismatch = errors.New("element: instance type does not match definition")
)

// Definition is the behaviour every element type provides. Implementations are
// stateless values.
type Definition interface {
	Tag() Tag
	// Construct returns a fresh instance carrying the default attributes.
	Construct(id string) Instance
	// Validate reports whether value is acceptable for inst.
	Validate(inst Instance, value string) bool
	// Button describes the designer palette entry.
	Button() Button
	Designer(inst Instance) View
	FillIn(inst Instance, state FieldState) View
	Properties(inst Instance) View
	// Apply commits an editor buffer and returns the updated instance. The input
	// instance is left untouched.
	Apply(inst Instance, edits Edits) (Instance, error)
	// Submittable reports whether the element carries a user value.
	Submittable() bool
}

// Button is the designer palette descriptor.
type Button struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// View is a renderer independent description of what to draw: a template name
// and the data it needs.
type View struct {
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// FieldState is the per-field fill-in state a renderer needs.
type FieldState struct {
	Value   string
	Invalid bool
	// Epoch changes whenever previously rendered input must be discarded.
	Epoch    int64
	ReadOnly bool
}

// Edits is the properties editor buffer keyed by attribute name. Unchecked
// boxes are absent, mirroring HTML form posts.
type Edits map[string][]string

// Get returns the first value for key, or "".
func (e Edits) Get(key string) string {
	values := e[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Has reports whether key was posted.
func (e Edits) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Bool interprets key the way a checkbox post does.
func (e Edits) Bool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(e.Get(key))) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Int parses key as an integer. The boolean is false when key is absent.
func (e Edits) Int(key string) (int, bool, error) {
	if !e.Has(key) {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(e.Get(key)))
	if err != nil {
		return 0, true, errors.Join(ErrInvalidEdit, err)
	}
	return n, true, nil
}

// Rule is a named validation policy shared by several element types.
type Rule func(required bool, value string) bool

var (
	// RequireTrimmed rejects values that are empty after trimming whitespace.
	RequireTrimmed Rule = func(required bool, value string) bool {
		return !required || strings.TrimSpace(value) != ""
	}
	// RequireRaw only rejects the empty string. Checkbox relies on this, so a
	// single space satisfies a required checkbox.
	RequireRaw Rule = func(required bool, value string) bool {
		return !required || len(value) > 0
	}
	// AlwaysValid is used by structural elements.
	AlwaysValid Rule = func(bool, string) bool {
		return true
	}
)
