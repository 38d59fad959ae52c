package tui

import (
	"errors"
	"testing"
)

func TestSurveyValidator(t *testing.T) {
	errRequired := errors.New("required")
	var seen []string
	validate := surveyValidator(func(value string) error {
		seen = append(seen, value)
		if value == "" {
			return errRequired
		}
		return nil
	})

	if err := validate("Ada"); err != nil {
		t.Fatalf("valid answer: %v", err)
	}
	if err := validate(""); !errors.Is(err, errRequired) {
		t.Fatalf("expected errRequired, got %v", err)
	}
	if err := validate(42); err == nil {
		t.Fatalf("expected error for a non string answer")
	}
	if len(seen) != 2 || seen[0] != "Ada" || seen[1] != "" {
		t.Fatalf("validator saw %q", seen)
	}
}
