package template

// TemplateRenderer is the seam renderers use to execute named templates.
type TemplateRenderer interface {
	RenderTemplate(name string, data any) (string, error)
}
