// Package vanilla renders designer previews, fill-in forms, property editors
// and submission tables as server side HTML using pongo2 templates.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	gotemplate "github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

const templatePrefix = "templates/"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// provide every template the embedded bundle does.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
	script     string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:  templates,
		stylesheet: readAsset(StylesheetName),
		script:     readAsset(ScriptName),
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws page inside the document layout.
func (r *Renderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	var (
		title, kind, body string
		err               error
	)
	switch p := page.(type) {
	case render.DesignerPage:
		title, kind = p.Name, "designer"
		body, err = r.designer(p, opts)
	case render.FillInPage:
		title, kind = p.Title, "fillin"
		body, err = r.fillIn(p, opts)
	case render.PropertiesPage:
		title, kind = p.Element.Label(), "properties"
		if title == "" {
			title = string(p.Element.Type)
		}
		body, err = r.properties(p, opts)
	case render.SubmissionsPage:
		title, kind = p.Name, "submissions"
		body, err = r.submissions(p, opts)
	case render.ThankYouPage:
		title, kind = p.Title, "thankyou"
		body, err = r.page("thankyou", map[string]any{"title": p.Title, "message": p.Message})
	default:
		return nil, fmt.Errorf("%w: %T", render.ErrUnsupportedPage, page)
	}
	if err != nil {
		return nil, err
	}

	out, err := r.templates.RenderTemplate(templatePrefix+"layout", r.layoutData(title, kind, body, opts))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render layout: %w", err)
	}
	return []byte(out), nil
}

// RenderDesigner renders the designer preview fragment of one element.
func (r *Renderer) RenderDesigner(inst element.Instance, opts render.RenderOptions) (string, error) {
	def, err := element.Lookup(inst.Type)
	if err != nil {
		return "", err
	}
	return r.view(def.Designer(inst), opts, nil)
}

// RenderFillIn renders the fill-in fragment of one element in state.
func (r *Renderer) RenderFillIn(inst element.Instance, state element.FieldState, opts render.RenderOptions) (string, error) {
	def, err := element.Lookup(inst.Type)
	if err != nil {
		return "", err
	}
	var extra map[string]any
	if opts.Actions.BlurPrefix != "" && !state.ReadOnly && def.Submittable() {
		extra = map[string]any{"blurURL": joinURL(opts.Actions.BlurPrefix, inst.ID)}
	}
	return r.view(def.FillIn(inst, state), opts, extra)
}

// RenderProperties renders the properties editor fragment of one element.
func (r *Renderer) RenderProperties(inst element.Instance, opts render.RenderOptions) (string, error) {
	def, err := element.Lookup(inst.Type)
	if err != nil {
		return "", err
	}
	return r.view(def.Properties(inst), opts, nil)
}

// view executes an element view, honouring theme partial overrides keyed by
// the view's template name.
func (r *Renderer) view(v element.View, opts render.RenderOptions, extra map[string]any) (string, error) {
	name := templatePrefix + v.Template
	if opts.Theme != nil {
		if override := opts.Theme.Partials[v.Template]; override != "" {
			name = override
		}
	}

	data := make(map[string]any, len(v.Data)+len(extra))
	for key, value := range v.Data {
		data[key] = value
	}
	for key, value := range extra {
		data[key] = value
	}

	out, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render %s: %w", v.Template, err)
	}
	return out, nil
}

func (r *Renderer) page(name string, data map[string]any) (string, error) {
	out, err := r.templates.RenderTemplate(templatePrefix+name, data)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render %s page: %w", name, err)
	}
	return out, nil
}

func (r *Renderer) layoutData(title, kind, body string, opts render.RenderOptions) map[string]any {
	data := map[string]any{
		"title":      title,
		"page":       kind,
		"body":       body,
		"stylesheet": r.stylesheet,
		"script":     r.script,
	}
	if cfg := opts.Theme; cfg != nil {
		data["theme"] = map[string]any{
			"name":    cfg.Theme,
			"variant": cfg.Variant,
			"cssVars": cfg.CSSVars,
		}
		if cfg.AssetURL != nil {
			data["stylesheetURL"] = cfg.AssetURL(StylesheetAsset)
		}
	}
	return data
}
