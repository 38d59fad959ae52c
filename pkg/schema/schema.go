// Package schema encodes and decodes form content: the ordered list of element
// instances a designer saves and a fill-in session replays.
package schema

import (
	"github.com/goliatone/go-formbuilder/pkg/element"
)

// Schema is an ordered form definition.
type Schema []element.Instance

// Find returns the instance with id.
func (s Schema) Find(id string) (element.Instance, bool) {
	for _, inst := range s {
		if inst.ID == id {
			return inst, true
		}
	}
	return element.Instance{}, false
}

// Replace returns a copy of s with the instance sharing inst.ID swapped for
// inst. The boolean is false when no instance has that id.
func (s Schema) Replace(inst element.Instance) (Schema, bool) {
	out := make(Schema, len(s))
	found := false
	for i, existing := range s {
		if existing.ID == inst.ID {
			out[i] = inst
			found = true
			continue
		}
		out[i] = existing
	}
	return out, found
}

// Append returns a copy of s with inst added at the end.
func (s Schema) Append(inst element.Instance) Schema {
	out := make(Schema, 0, len(s)+1)
	out = append(out, s...)
	return append(out, inst)
}

// Remove returns a copy of s without the instance identified by id.
func (s Schema) Remove(id string) Schema {
	out := make(Schema, 0, len(s))
	for _, inst := range s {
		if inst.ID != id {
			out = append(out, inst)
		}
	}
	return out
}

// Submittable returns the value carrying instances in order.
func (s Schema) Submittable() Schema {
	out := make(Schema, 0, len(s))
	for _, inst := range s {
		def, err := element.Lookup(inst.Type)
		if err != nil || !def.Submittable() {
			continue
		}
		out = append(out, inst)
	}
	return out
}

// Instances returns s as a plain slice.
func (s Schema) Instances() []element.Instance {
	return []element.Instance(s)
}
