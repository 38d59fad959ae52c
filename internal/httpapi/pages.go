package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

// renderPage draws page with the renderer matching the request's Accept
// header.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page render.Page, opts render.RenderOptions) {
	renderer, err := s.renderers.Negotiate(r)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	if opts.Theme == nil && s.themes != nil {
		cfg, err := render.ResolveTheme(s.themes, themeParam(r, "theme", s.themeName), themeParam(r, "variant", s.themeVariant), nil)
		if err != nil {
			s.pageError(w, r, invalid("unknown theme"))
			return
		}
		opts.Theme = cfg
	}

	started := time.Now()
	body, err := renderer.Render(r.Context(), page, opts)
	s.metrics.ObserveRender(renderer.Name(), pageName(page), started)
	if err != nil {
		s.pageError(w, r, fmt.Errorf("httpapi: render %s: %w", pageName(page), err))
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// pageError answers page routes with a plain text message.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("page failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, message, status)
}

func themeParam(r *http.Request, key, fallback string) string {
	if value := r.URL.Query().Get(key); value != "" {
		return value
	}
	return fallback
}

func pageName(page render.Page) string {
	switch page.(type) {
	case render.DesignerPage:
		return "designer"
	case render.FillInPage:
		return "fillin"
	case render.PropertiesPage:
		return "properties"
	case render.SubmissionsPage:
		return "submissions"
	case render.ThankYouPage:
		return "thankyou"
	default:
		return "unknown"
	}
}

func designerPath(id int64) string {
	return fmt.Sprintf("/designer/%d", id)
}

func (s *Server) designerPage(w http.ResponseWriter, r *http.Request) {
	form, err := s.ownedForm(r)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	instances, err := schema.DecodeString(form.Content)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, render.DesignerPage{
		FormID:      form.ID,
		Name:        form.Name,
		Description: form.Description,
		Published:   form.Published,
		ShareURL:    form.ShareURL,
		Elements:    instances,
	}, render.RenderOptions{
		Actions: render.Actions{PropertiesPrefix: designerPath(form.ID) + "/elements"},
	})
}

func (s *Server) propertiesPage(w http.ResponseWriter, r *http.Request) {
	form, inst, ok := s.formElement(w, r)
	if !ok {
		return
	}
	s.renderProperties(w, r, http.StatusOK, form.ID, form.Published, inst, "")
}

func (s *Server) renderProperties(w http.ResponseWriter, r *http.Request, status int, id int64, published bool, inst element.Instance, message string) {
	actions := render.Actions{Back: designerPath(id)}
	if !published {
		actions.Apply = r.URL.Path
	}
	s.renderPage(w, r, status, render.PropertiesPage{FormID: id, Element: inst, Error: message}, render.RenderOptions{Actions: actions})
}

// applyProperties commits the editor buffer and saves the form content.
func (s *Server) applyProperties(w http.ResponseWriter, r *http.Request) {
	form, inst, ok := s.formElement(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.pageError(w, r, invalid("invalid form body"))
		return
	}
	edits := element.Edits(r.PostForm)
	delete(edits, render.CSRFFieldName)

	def, err := element.Lookup(inst.Type)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	updated, err := def.Apply(inst, edits)
	if errors.Is(err, element.ErrInvalidEdit) {
		s.renderProperties(w, r, http.StatusBadRequest, form.ID, form.Published, inst, "Please check the values you entered")
		return
	}
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	instances, err := schema.DecodeString(form.Content)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	instances, _ = instances.Replace(updated)
	content, err := schema.EncodeString(instances)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	if _, err := s.store.UpdateContent(r.Context(), ownerFrom(r), form.ID, content); err != nil {
		s.pageError(w, r, err)
		return
	}
	http.Redirect(w, r, designerPath(form.ID), http.StatusSeeOther)
}

// formElement loads the owned form and the element named in the path. The
// response is written when ok is false.
func (s *Server) formElement(w http.ResponseWriter, r *http.Request) (form store.Form, inst element.Instance, ok bool) {
	form, err := s.ownedForm(r)
	if err != nil {
		s.pageError(w, r, err)
		return form, inst, false
	}
	instances, err := schema.DecodeString(form.Content)
	if err != nil {
		s.pageError(w, r, err)
		return form, inst, false
	}
	inst, found := instances.Find(chi.URLParam(r, "elementID"))
	if !found {
		http.Error(w, "Not found", http.StatusNotFound)
		return form, inst, false
	}
	return form, inst, true
}

func (s *Server) submissionsPage(w http.ResponseWriter, r *http.Request) {
	form, err := s.ownedForm(r)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	instances, err := schema.DecodeString(form.Content)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	subs, err := s.store.Submissions(r.Context(), form.ID)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	table, err := render.BuildSubmissionTable(instances, subs)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, render.SubmissionsPage{Name: form.Name, Table: table}, render.RenderOptions{
		Actions: render.Actions{Back: designerPath(form.ID)},
	})
}

func (s *Server) openAPIDocument(w http.ResponseWriter, r *http.Request) {
	form, err := s.ownedForm(r)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	instances, err := schema.DecodeString(form.Content)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	body, err := export.SubmitDocumentJSON(r.Context(), form.Name, form.ShareURL, instances)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) contentSchema(w http.ResponseWriter, r *http.Request) {
	body, err := export.ContentSchemaJSON()
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(body)
}
