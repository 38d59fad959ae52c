package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/events"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

const (
	// claimWait bounds how long page loads and blurs wait for a session that
	// another request holds. Submits never wait.
	claimWait  = 2 * time.Second
	claimRetry = 20 * time.Millisecond
	claimGrace = 5 * time.Second
)

func submitPath(shareURL string) string {
	return "/submit/" + shareURL
}

// publishedForm resolves the share URL in the path. Unpublished forms are
// reported as missing.
func (s *Server) publishedForm(r *http.Request) (store.Form, schema.Schema, error) {
	form, err := s.store.FormByShareURL(r.Context(), chi.URLParam(r, "shareURL"))
	if err != nil {
		return store.Form{}, nil, err
	}
	if !form.Published {
		return store.Form{}, nil, store.ErrNotFound
	}
	instances, err := schema.DecodeString(form.Content)
	if err != nil {
		return store.Form{}, nil, err
	}
	return form, instances, nil
}

// loadSession restores the caller's session for form, or starts a new one
// when the id is unknown, expired, or belongs to another form.
func (s *Server) loadSession(r *http.Request, form store.Form, instances schema.Schema) (*session.Session, error) {
	opts := []session.Option{session.WithLogger(s.logger)}
	if id := sessionID(r); id != "" {
		snap, err := s.sessions.Load(r.Context(), id)
		switch {
		case err == nil && snap.ShareURL == form.ShareURL:
			return session.Restore(snap, instances, s.persister(), opts...), nil
		case err != nil && !errors.Is(err, session.ErrSessionNotFound):
			return nil, err
		}
	}
	return session.New(form.ShareURL, instances, s.persister(), opts...), nil
}

// sessionID prefers the hidden form field over the cookie.
func sessionID(r *http.Request) string {
	if r.Method == http.MethodPost {
		if id := r.PostFormValue(render.SessionFieldName); id != "" {
			return id
		}
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (s *Server) saveSession(ctx context.Context, w http.ResponseWriter, sess *session.Session, form store.Form) error {
	snap := sess.Snapshot()
	if err := s.sessions.Save(ctx, snap.ID, snap, s.sessionTTL); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    snap.ID,
		Path:     submitPath(form.ShareURL),
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// claimSession takes the host claim on the request's session, retrying for up
// to wait. Requests without a session id start a new session and need no
// claim. The returned func is never nil.
func (s *Server) claimSession(r *http.Request, wait time.Duration) (func(), error) {
	id := sessionID(r)
	if id == "" {
		return func() {}, nil
	}
	ttl := s.submitTimeout + claimGrace
	deadline := time.Now().Add(wait)
	for {
		release, err := s.sessions.Claim(r.Context(), id, ttl)
		if err == nil {
			return func() {
				if err := release(context.WithoutCancel(r.Context())); err != nil {
					s.logger.Error("release session failed", "session", id, "error", err)
				}
			}, nil
		}
		if !errors.Is(err, session.ErrSessionBusy) || !time.Now().Before(deadline) {
			return func() {}, err
		}
		select {
		case <-r.Context().Done():
			return func() {}, r.Context().Err()
		case <-time.After(claimRetry):
		}
	}
}

func (s *Server) fillInOptions(form store.Form, sess *session.Session) render.RenderOptions {
	base := submitPath(form.ShareURL)
	return render.RenderOptions{
		Actions: render.Actions{Submit: base, BlurPrefix: base + "/fields"},
		Hidden:  render.MergeHiddenFields(nil, render.SessionField(sess.ID())),
	}
}

func (s *Server) fillInPage(w http.ResponseWriter, r *http.Request) {
	form, instances, err := s.publishedForm(r)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	if _, err := s.store.RecordVisit(r.Context(), form.ID); err != nil {
		s.pageError(w, r, err)
		return
	}
	s.metrics.ObserveVisit()
	s.emit(r.Context(), events.Event{Type: events.FormVisited, FormID: form.ID, ShareURL: form.ShareURL})

	release, err := s.claimSession(r, claimWait)
	defer release()
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	sess, err := s.loadSession(r, form, instances)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	if err := s.saveSession(r.Context(), w, sess, form); err != nil {
		s.pageError(w, r, err)
		return
	}
	if sess.Snapshot().State == session.StateSubmitted {
		s.renderThankYou(w, r, form)
		return
	}
	s.renderPage(w, r, http.StatusOK, render.FillInPage{Title: form.Name, Session: sess}, s.fillInOptions(form, sess))
}

// blurField commits one field and answers {valid}.
func (s *Server) blurField(w http.ResponseWriter, r *http.Request) {
	form, instances, err := s.publishedForm(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, invalid("invalid form body"))
		return
	}
	id := sessionID(r)
	if id == "" {
		s.fail(w, r, session.ErrSessionNotFound)
		return
	}
	release, err := s.claimSession(r, claimWait)
	defer release()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.sessions.Load(r.Context(), id)
	if err == nil && snap.ShareURL != form.ShareURL {
		err = session.ErrSessionNotFound
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sess := session.Restore(snap, instances, s.persister(), session.WithLogger(s.logger))
	valid, err := sess.Blur(chi.URLParam(r, "elementID"), r.PostForm.Get("value"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.ObserveBlur(valid)
	if err := s.sessions.Save(r.Context(), sess.ID(), sess.Snapshot(), s.sessionTTL); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, "", map[string]bool{"valid": valid})
}

// submitPage commits every posted field of the current epoch and submits.
// Inputs named for an older epoch are ignored.
func (s *Server) submitPage(w http.ResponseWriter, r *http.Request) {
	form, instances, err := s.publishedForm(r)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.pageError(w, r, invalid("invalid form body"))
		return
	}
	// The claim is held from load to the final save so a concurrent request
	// for the same session can neither submit again nor overwrite the result.
	release, err := s.claimSession(r, 0)
	defer release()
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	sess, err := s.loadSession(r, form, instances)
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	snap := sess.Snapshot()
	if snap.State == session.StateSubmitted {
		s.renderThankYou(w, r, form)
		return
	}
	if snap.State == session.StateFilling {
		for _, inst := range schema.Schema(sess.Schema()).Submittable() {
			raw := r.PostForm.Get(element.InputName(inst.ID, snap.Epoch))
			if _, err := sess.Blur(inst.ID, raw); err != nil {
				s.pageError(w, r, err)
				return
			}
		}
	}

	// Every transition is written to the host as it happens.
	saveCtx := context.WithoutCancel(r.Context())
	stop := session.Persist(saveCtx, sess, s.sessions, s.sessionTTL, func(err error) {
		s.logger.Error("save session failed", "session", sess.ID(), "error", err)
	})
	if err := s.saveSession(saveCtx, w, sess, form); err != nil {
		stop()
		s.pageError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.submitTimeout)
	outcome, err := sess.Submit(ctx)
	cancel()
	stop()
	s.metrics.ObserveSubmit(outcome, err)

	switch {
	case errors.Is(err, session.ErrSubmitted), err == nil && outcome.Submitted:
		s.renderThankYou(w, r, form)
	case errors.Is(err, session.ErrSubmitInFlight):
		s.renderPage(w, r, http.StatusConflict, render.FillInPage{Title: form.Name, Session: sess}, s.fillInOptions(form, sess))
	case errors.Is(err, session.ErrPersistence):
		s.renderPage(w, r, http.StatusInternalServerError, render.FillInPage{Title: form.Name, Session: sess}, s.fillInOptions(form, sess))
	case err != nil:
		s.pageError(w, r, err)
	default:
		s.renderPage(w, r, http.StatusUnprocessableEntity, render.FillInPage{Title: form.Name, Session: sess}, s.fillInOptions(form, sess))
	}
}

func (s *Server) renderThankYou(w http.ResponseWriter, r *http.Request, form store.Form) {
	s.renderPage(w, r, http.StatusOK, render.ThankYouPage{
		Title:   form.Name,
		Message: string(session.NoticeSubmitted),
	}, render.RenderOptions{})
}
