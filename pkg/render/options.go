package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carry per-request data that sits outside the page itself.
type RenderOptions struct {
	// Theme is the resolved theme, or nil for the built-in look.
	Theme *theme.RendererConfig
	// Actions holds the URLs forms and links point at.
	Actions Actions
	// Hidden fields are emitted inside every rendered form.
	Hidden map[string]string
}

// Actions are the endpoints a rendered page talks to. Prefix values are joined
// with an element id.
type Actions struct {
	// Submit is the fill-in form action.
	Submit string
	// BlurPrefix receives single field commits: BlurPrefix + "/" + id.
	BlurPrefix string
	// PropertiesPrefix links designer elements to their editor.
	PropertiesPrefix string
	// Apply is the properties editor form action.
	Apply string
	// Back links editors and tables to the designer.
	Back string
}
