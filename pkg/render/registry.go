package render

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/elnormous/contenttype"
)

// Registry stores renderers by name. The first registered renderer is the
// default returned by Negotiate when nothing else matches.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// List returns the registered names sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Negotiate picks the registered renderer that best matches the request's
// Accept header, honouring quality values. The first registered renderer is
// used when the header is missing or accepts none of them.
func (r *Registry) Negotiate(req *http.Request) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, fmt.Errorf("render: no renderers registered")
	}
	fallback := r.renderers[r.order[0]]
	if req == nil {
		return fallback, nil
	}

	available := make([]contenttype.MediaType, 0, len(r.order))
	for _, name := range r.order {
		mt := contenttype.NewMediaType(r.renderers[name].ContentType())
		available = append(available, contenttype.MediaType{Type: mt.Type, Subtype: mt.Subtype})
	}
	chosen, _, err := contenttype.GetAcceptableMediaType(req, available)
	if err != nil {
		return fallback, nil
	}
	for i, mt := range available {
		if mt.Type == chosen.Type && mt.Subtype == chosen.Subtype {
			return r.renderers[r.order[i]], nil
		}
	}
	return fallback, nil
}
