package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

const maxBodyBytes = 1 << 20

// Envelope is the body of every JSON API response.
type Envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

var errUnauthorized = errors.New("httpapi: missing owner")

type ownerKey struct{}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) ok(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Status: true, Message: message, Data: data})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, Envelope{Status: false, Message: message})
}

func (s *Server) failWith(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Status: false, Message: message, Data: data})
}

// classify maps domain errors to a status code and a message safe to show.
func classify(err error) (int, string) {
	var (
		bad      badRequest
		inputErr *store.InputError
	)
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest, bad.msg
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Reason
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, store.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, store.ErrPublished):
		return http.StatusConflict, "Form is already published"
	case errors.Is(err, session.ErrSubmitInFlight), errors.Is(err, session.ErrSessionBusy):
		return http.StatusConflict, "Submission already in progress"
	case errors.Is(err, session.ErrSubmitted):
		return http.StatusConflict, "Form already submitted"
	case errors.Is(err, session.ErrPersistence):
		return http.StatusInternalServerError, string(session.NoticeSubmitFailed)
	case errors.Is(err, store.ErrInvalid):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, element.ErrUnknownTag), errors.Is(err, element.ErrInvalidEdit),
		errors.Is(err, session.ErrUnknownElement):
		return http.StatusBadRequest, "Invalid request"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// badRequest carries a client facing message.
type badRequest struct{ msg string }

func (b badRequest) Error() string { return "httpapi: " + b.msg }

func invalid(format string, args ...any) error {
	return badRequest{msg: fmt.Sprintf(format, args...)}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return invalid("invalid JSON body: %v", err)
	}
	return nil
}

func formID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("invalid form id %q", raw)
	}
	return id, nil
}

func ownerFrom(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey{}).(string)
	return owner
}
