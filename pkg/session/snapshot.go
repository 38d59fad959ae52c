package session

import "github.com/goliatone/go-formbuilder/pkg/element"

// Snapshot is a copy of a session's state. Hosts store it between requests and
// renderers read field state from it.
type Snapshot struct {
	ID       string            `json:"id"`
	ShareURL string            `json:"shareURL"`
	State    State             `json:"state"`
	Values   map[string]string `json:"values"`
	Drafts   map[string]string `json:"drafts"`
	Errors   map[string]bool   `json:"errors"`
	Epoch    int64             `json:"epoch"`
	Notice   Notice            `json:"notice,omitempty"`
}

// CanSubmit reports whether the submit control should be enabled.
func (s Snapshot) CanSubmit() bool {
	return s.State == StateFilling
}

// FieldState returns the render state for id: the draft when one exists,
// otherwise the committed value.
func (s Snapshot) FieldState(id string) element.FieldState {
	value, ok := s.Drafts[id]
	if !ok {
		value = s.Values[id]
	}
	return element.FieldState{
		Value:    value,
		Invalid:  s.Errors[id],
		Epoch:    s.Epoch,
		ReadOnly: s.State != StateFilling,
	}
}

func (s Snapshot) clone() Snapshot {
	s.Values = cloneStrings(s.Values)
	s.Drafts = cloneStrings(s.Drafts)
	s.Errors = cloneFlags(s.Errors)
	return s
}
