package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

type createElementRequest struct {
	Type element.Tag `json:"type"`
}

// listElements returns the designer palette in catalog order.
func (s *Server) listElements(w http.ResponseWriter, r *http.Request) {
	s.ok(w, http.StatusOK, "", element.Palette())
}

// createElement constructs a default instance with a fresh id. Nothing is
// stored until the designer saves the form content.
func (s *Server) createElement(w http.ResponseWriter, r *http.Request) {
	var req createElementRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	inst, err := element.ConstructDefault(req.Type, uuid.NewString())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusCreated, "", inst)
}
