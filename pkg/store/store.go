// Package store defines form and submission persistence. Implementations live
// in the sqlite and gormstore sub-packages and share the storetest suite.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrForbidden = errors.New("store: forbidden")
	// ErrPublished is returned when changing the content of a published form.
	ErrPublished = errors.New("store: form is published")
	ErrInvalid   = errors.New("store: invalid input")
)

// InputError is a rejected create or update input. Reason is written for the
// person who typed the value.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return ErrInvalid.Error() + ": " + e.Reason }

func (e *InputError) Unwrap() error { return ErrInvalid }

func invalidInput(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	// EmptyContent is the content of a form without elements.
	EmptyContent = "[]"
)

// Form is a designed form owned by one user.
type Form struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Published   bool      `json:"published"`
	Visits      int64     `json:"visits"`
	Submissions int64     `json:"submissions"`
	ShareURL    string    `json:"shareURL"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Submission is one stored fill-in; Content is the JSON value map.
type Submission struct {
	ID        int64     `json:"id"`
	FormID    int64     `json:"formId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats aggregates an owner's forms.
type Stats struct {
	Visits         int64 `json:"visits"`
	Submissions    int64 `json:"submissions"`
	SubmissionRate int64 `json:"submissionRate"`
	BounceRate     int64 `json:"bounceRate"`
}

// Store persists forms and their submissions.
type Store interface {
	CreateForm(ctx context.Context, ownerID, name, description string) (Form, error)
	// Forms lists the owner's forms newest first.
	Forms(ctx context.Context, ownerID string) ([]Form, error)
	Form(ctx context.Context, id int64) (Form, error)
	FormByShareURL(ctx context.Context, shareURL string) (Form, error)
	UpdateContent(ctx context.Context, ownerID string, id int64, content string) (Form, error)
	Publish(ctx context.Context, ownerID string, id int64, content string) (Form, error)
	DeleteForm(ctx context.Context, ownerID string, id int64) error
	RecordVisit(ctx context.Context, id int64) (Form, error)
	// Submit stores content for the published form behind shareURL.
	Submit(ctx context.Context, shareURL, content string) error
	Submissions(ctx context.Context, formID int64) ([]Submission, error)
	Stats(ctx context.Context, ownerID string) (Stats, error)
	Close() error
}

// NewForm validates create input and returns the record to insert.
func NewForm(ownerID, name, description string, now time.Time) (Form, error) {
	ownerID = strings.TrimSpace(ownerID)
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	switch {
	case ownerID == "":
		return Form{}, invalidInput("Owner is required")
	case name == "":
		return Form{}, invalidInput("Name is required")
	case utf8.RuneCountInString(name) > MaxNameLength:
		return Form{}, invalidInput("Name must be at most %d characters", MaxNameLength)
	case utf8.RuneCountInString(description) > MaxDescriptionLength:
		return Form{}, invalidInput("Description must be at most %d characters", MaxDescriptionLength)
	}

	return Form{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Content:     EmptyContent,
		ShareURL:    uuid.NewString(),
		CreatedAt:   now.UTC(),
	}, nil
}

// ComputeStats derives the rates from raw counters. Rates are whole
// percentages; with no visits or no submissions the submission rate is 0.
func ComputeStats(visits, submissions int64) Stats {
	stats := Stats{Visits: visits, Submissions: submissions}
	if visits > 0 && submissions > 0 {
		stats.SubmissionRate = int64(math.Round(float64(submissions) / float64(visits) * 100))
	}
	stats.BounceRate = 100 - stats.SubmissionRate
	return stats
}

// NormalizeContent maps blank content to EmptyContent.
func NormalizeContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return EmptyContent
	}
	return content
}
