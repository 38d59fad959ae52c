// Package jsonview renders pages as JSON documents for script clients. Element
// views are emitted as their template name and data, so clients draw them with
// their own components.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

type Option func(*Renderer)

// WithIndent pretty prints output with the given indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return "json" }
func (r *Renderer) ContentType() string { return "application/json" }

type document struct {
	Page    string            `json:"page"`
	Title   string            `json:"title,omitempty"`
	Actions render.Actions    `json:"actions"`
	Hidden  map[string]string `json:"hidden,omitempty"`
	Data    any               `json:"data"`
}

type elementView struct {
	ID       string         `json:"id"`
	Type     element.Tag    `json:"type"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

type designerData struct {
	FormID      int64         `json:"formId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Published   bool          `json:"published"`
	ShareURL    string        `json:"shareURL,omitempty"`
	Elements    []elementView `json:"elements"`
}

type fillInData struct {
	Session   session.Snapshot `json:"session"`
	CanSubmit bool             `json:"canSubmit"`
	Elements  []elementView    `json:"elements"`
}

type propertiesData struct {
	FormID  int64       `json:"formId"`
	Element elementView `json:"element"`
	Error   string      `json:"error,omitempty"`
}

type thankYouData struct {
	Message string `json:"message"`
}

// Render encodes page with the element views it would show.
func (r *Renderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	doc := document{Actions: opts.Actions, Hidden: opts.Hidden}

	switch p := page.(type) {
	case render.DesignerPage:
		views, err := views(p.Elements, func(def element.Definition, inst element.Instance) element.View {
			return def.Designer(inst)
		})
		if err != nil {
			return nil, err
		}
		doc.Page, doc.Title = "designer", p.Name
		doc.Data = designerData{
			FormID:      p.FormID,
			Name:        p.Name,
			Description: p.Description,
			Published:   p.Published,
			ShareURL:    p.ShareURL,
			Elements:    views,
		}
	case render.FillInPage:
		if p.Session == nil {
			return nil, render.ErrNoSession
		}
		snap := p.Session.Snapshot()
		views, err := views(p.Session.Schema(), func(def element.Definition, inst element.Instance) element.View {
			return def.FillIn(inst, snap.FieldState(inst.ID))
		})
		if err != nil {
			return nil, err
		}
		doc.Page, doc.Title = "fillin", p.Title
		doc.Hidden = render.MergeHiddenFields(opts.Hidden, render.SessionField(snap.ID))
		doc.Data = fillInData{Session: snap, CanSubmit: snap.CanSubmit(), Elements: views}
	case render.PropertiesPage:
		def, err := element.Lookup(p.Element.Type)
		if err != nil {
			return nil, err
		}
		doc.Page, doc.Title = "properties", p.Element.Label()
		doc.Data = propertiesData{FormID: p.FormID, Element: viewOf(p.Element, def.Properties(p.Element)), Error: p.Error}
	case render.SubmissionsPage:
		doc.Page, doc.Title = "submissions", p.Name
		doc.Data = p.Table
	case render.ThankYouPage:
		doc.Page, doc.Title = "thankyou", p.Title
		doc.Data = thankYouData{Message: p.Message}
	default:
		return nil, fmt.Errorf("%w: %T", render.ErrUnsupportedPage, page)
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonview: encode %s: %w", doc.Page, err)
	}
	return out, nil
}

func views(instances []element.Instance, view func(element.Definition, element.Instance) element.View) ([]elementView, error) {
	out := make([]elementView, 0, len(instances))
	for _, inst := range instances {
		def, err := element.Lookup(inst.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, viewOf(inst, view(def, inst)))
	}
	return out, nil
}

func viewOf(inst element.Instance, view element.View) elementView {
	return elementView{ID: inst.ID, Type: inst.Type, Template: view.Template, Data: view.Data}
}
