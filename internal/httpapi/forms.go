package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/events"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type createFormRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type submitRequest struct {
	ShareURL string `json:"shareURL"`
	Content  string `json:"content"`
}

func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.store.Forms(r.Context(), ownerFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, "", forms)
}

func (s *Server) createForm(w http.ResponseWriter, r *http.Request) {
	var req createFormRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	form, err := s.store.CreateForm(r.Context(), ownerFrom(r), req.Name, req.Description)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.emit(r.Context(), events.Event{Type: events.FormCreated, FormID: form.ID, ShareURL: form.ShareURL, OwnerID: form.OwnerID})
	s.ok(w, http.StatusCreated, "Form created", form)
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.ownedForm(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, "", form)
}

func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request) {
	id, err := formID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteForm(r.Context(), ownerFrom(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.emit(r.Context(), events.Event{Type: events.FormDeleted, FormID: id, OwnerID: ownerFrom(r)})
	s.ok(w, http.StatusOK, "Form deleted", nil)
}

func (s *Server) saveContent(w http.ResponseWriter, r *http.Request) {
	id, content, ok := s.contentRequest(w, r)
	if !ok {
		return
	}
	form, err := s.store.UpdateContent(r.Context(), ownerFrom(r), id, content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, "Form saved", form)
}

func (s *Server) publishForm(w http.ResponseWriter, r *http.Request) {
	id, content, ok := s.contentRequest(w, r)
	if !ok {
		return
	}
	form, err := s.store.Publish(r.Context(), ownerFrom(r), id, content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.emit(r.Context(), events.Event{Type: events.FormPublished, FormID: form.ID, ShareURL: form.ShareURL, OwnerID: form.OwnerID})
	s.ok(w, http.StatusOK, "Form published", form)
}

// contentRequest decodes and checks a content body. A rejected body has
// already been answered when ok is false.
func (s *Server) contentRequest(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	id, err := formID(r)
	if err != nil {
		s.fail(w, r, err)
		return 0, "", false
	}
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return 0, "", false
	}
	if result := validation.ValidateContent([]byte(req.Content)); !result.Valid {
		s.failWith(w, http.StatusBadRequest, "Invalid form content", result)
		return 0, "", false
	}
	return id, req.Content, true
}

func (s *Server) visitForm(w http.ResponseWriter, r *http.Request) {
	id, err := formID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	form, err := s.store.RecordVisit(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.ObserveVisit()
	s.emit(r.Context(), events.Event{Type: events.FormVisited, FormID: form.ID, ShareURL: form.ShareURL})
	s.ok(w, http.StatusOK, "", form)
}

func (s *Server) listSubmissions(w http.ResponseWriter, r *http.Request) {
	form, err := s.ownedForm(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	subs, err := s.store.Submissions(r.Context(), form.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, "", subs)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context(), ownerFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, "", stats)
}

// submitJSON stores a value map sent by an API client. The values are checked
// with the same engine a fill-in session uses before anything is written.
func (s *Server) submitJSON(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.ShareURL == "" {
		s.fail(w, r, invalid("shareURL is required"))
		return
	}

	form, err := s.store.FormByShareURL(r.Context(), req.ShareURL)
	if err == nil && !form.Published {
		err = store.ErrNotFound
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	instances, err := schema.DecodeString(form.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	values, err := schema.DecodeValues(req.Content)
	if err != nil {
		s.fail(w, r, invalid("content must be a JSON object of element values"))
		return
	}

	result := validation.NewEngine().Validate(instances, values)
	if !result.Valid {
		s.metrics.ObserveSubmit(session.Outcome{Errors: result.Errors}, nil)
		s.failWith(w, http.StatusUnprocessableEntity, string(session.NoticeValidationFailed), result)
		return
	}

	kept := make(map[string]string, len(values))
	for _, inst := range instances.Submittable() {
		if value, ok := values[inst.ID]; ok {
			kept[inst.ID] = value
		}
	}
	content, err := schema.EncodeValues(kept)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.submitTimeout)
	defer cancel()
	err = s.persister().Submit(ctx, req.ShareURL, content)
	if err != nil {
		err = fmt.Errorf("%w: %w", session.ErrPersistence, err)
	}
	s.metrics.ObserveSubmit(session.Outcome{Valid: true, Submitted: err == nil}, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, string(session.NoticeSubmitted), nil)
}

func (s *Server) persister() session.Persister {
	return events.Persister(s.store, s.publisher, s.logger)
}

func (s *Server) ownedForm(r *http.Request) (store.Form, error) {
	id, err := formID(r)
	if err != nil {
		return store.Form{}, err
	}
	form, err := s.store.Form(r.Context(), id)
	if err != nil {
		return store.Form{}, err
	}
	if form.OwnerID != ownerFrom(r) {
		return store.Form{}, store.ErrForbidden
	}
	return form, nil
}

// emit publishes event. Failures are logged and never reach the client.
func (s *Server) emit(ctx context.Context, event events.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", "type", event.Type, "form_id", event.FormID, "error", err)
	}
}
