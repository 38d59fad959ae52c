package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const defaultRendererName = "vanilla"

// ErrInvalidSchema wraps structural problems found before rendering.
var ErrInvalidSchema = errors.New("orchestrator: invalid schema")

// Page selects the screen rendered for a request.
type Page string

const (
	PageDesigner Page = "designer"
	PageFillIn   Page = "fillin"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits one.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that runs after the schema is
// checked. Transformers run in registration order.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// WithThemeSelector resolves request theme names into renderer config.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes = selector
	}
}

// WithThemeFallbacks fills partials a selected theme does not define.
func WithThemeFallbacks(partials map[string]string) Option {
	return func(o *Orchestrator) {
		o.fallbacks = partials
	}
}

// Orchestrator renders stored form content. Defaults to the vanilla renderer
// with its embedded templates.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	themes          theme.ThemeSelector
	fallbacks       map[string]string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	return o
}

// Request describes what to render.
type Request struct {
	// Path of a .json/.yaml schema file. Ignored when Content is set.
	Path string
	// Content is raw JSON or YAML content.
	Content []byte
	// Title is shown above the form; defaults to the file name.
	Title string
	// Page defaults to PageDesigner.
	Page Page
	// Renderer names the renderer; empty uses the default.
	Renderer     string
	ThemeName    string
	ThemeVariant string
	// RenderOptions are passed through; Theme is filled from the selector when
	// left nil.
	RenderOptions render.RenderOptions
}

// Generate loads, checks, transforms and renders the requested page.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}

	form, err := o.Schema(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil && o.themes != nil {
		cfg, err := render.ResolveTheme(o.themes, req.ThemeName, req.ThemeVariant, o.fallbacks)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: resolve theme: %w", err)
		}
		opts.Theme = cfg
	}

	title := req.Title
	if title == "" {
		title = titleFromPath(req.Path)
	}

	var page render.Page
	switch req.Page {
	case "", PageDesigner:
		page = render.DesignerPage{Name: title, Elements: form}
	case PageFillIn:
		page = render.FillInPage{Title: title, Session: session.New("preview", form, nil)}
	default:
		return nil, fmt.Errorf("orchestrator: unknown page %q", req.Page)
	}

	output, err := renderer.Render(ctx, page, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Schema loads and checks the request content and applies the transformers.
func (o *Orchestrator) Schema(ctx context.Context, req Request) (schema.Schema, error) {
	form, err := o.load(req)
	if err != nil {
		return nil, err
	}
	if issues := validation.CheckSchema(form); len(issues) > 0 {
		messages := make([]string, 0, len(issues))
		for _, issue := range issues {
			messages = append(messages, issue.Path+": "+issue.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidSchema, strings.Join(messages, "; "))
	}
	for _, t := range o.transformers {
		form, err = t.Transform(ctx, form)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}
	return form, nil
}

func (o *Orchestrator) load(req Request) (schema.Schema, error) {
	if len(req.Content) > 0 {
		return schema.Parse(req.Content, "content")
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, errors.New("orchestrator: path or content is required")
	}
	return schema.Load(req.Path)
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func titleFromPath(path string) string {
	if path == "" {
		return "Form"
	}
	base := path[strings.LastIndexAny(path, `/\`)+1:]
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	return base
}
