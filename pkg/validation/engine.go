// Package validation runs the per-element rules over a whole form and checks
// stored form content before it is accepted.
package validation

import (
	"sort"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

// Result is the outcome of one validation pass. Errors only holds ids that
// failed.
type Result struct {
	Errors map[string]bool `json:"errors"`
	Valid  bool            `json:"valid"`
}

// Invalid reports whether id failed.
func (r Result) Invalid(id string) bool {
	return r.Errors[id]
}

// Failed returns the failing ids in sorted order.
func (r Result) Failed() []string {
	out := make([]string, 0, len(r.Errors))
	for id, failed := range r.Errors {
		if failed {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Engine validates entered values against a form schema.
type Engine struct {
	lookup func(element.Tag) element.Definition
}

// Option configures an Engine.
type Option func(*Engine)

// WithLookup replaces the registry lookup. The function must not return nil.
func WithLookup(fn func(element.Tag) element.Definition) Option {
	return func(e *Engine) {
		if fn != nil {
			e.lookup = fn
		}
	}
}

// NewEngine returns an Engine backed by the element registry.
func NewEngine(options ...Option) *Engine {
	e := &Engine{lookup: element.MustLookup}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

var defaultEngine = NewEngine()

// Validate runs the default engine.
func Validate(schema []element.Instance, values map[string]string) Result {
	return defaultEngine.Validate(schema, values)
}

// Validate checks every element in schema order without stopping at the first
// failure. A missing value is treated as "". Unknown tags panic: schemas are
// checked with CheckSchema where they enter the system.
func (e *Engine) Validate(schema []element.Instance, values map[string]string) Result {
	lookup := e.lookup
	if lookup == nil {
		lookup = element.MustLookup
	}

	errs := make(map[string]bool)
	for _, inst := range schema {
		def := lookup(inst.Type)
		if !def.Validate(inst, values[inst.ID]) {
			errs[inst.ID] = true
		}
	}
	return Result{Errors: errs, Valid: len(errs) == 0}
}
