// Package tui renders forms in a terminal. Fill-in pages are interactive: each
// value carrying element becomes a survey prompt whose answer is fed to the
// session as a blur, and the session decides when the form is submitted.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

// noneOption lets users leave an optional select empty.
const noneOption = "(none)"

type Renderer struct {
	driver      PromptDriver
	out         io.Writer
	theme       Theme
	maxAttempts int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer backed by survey unless a driver is supplied.
func New(options ...Option) *Renderer {
	r := &Renderer{theme: DefaultTheme()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render draws page. Fill-in pages block on the prompt driver until the
// session is submitted, the user aborts, or ctx is cancelled; the returned
// bytes are the closing screen.
func (r *Renderer) Render(ctx context.Context, page render.Page, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch p := page.(type) {
	case render.FillInPage:
		return r.fillIn(ctx, p)
	case render.ThankYouPage:
		return []byte(r.thankYou(p.Title, p.Message)), nil
	case render.DesignerPage:
		return []byte(r.designer(p)), nil
	case render.SubmissionsPage:
		return []byte(r.submissions(p)), nil
	default:
		return nil, fmt.Errorf("%w: %T", render.ErrUnsupportedPage, page)
	}
}

func (r *Renderer) fillIn(ctx context.Context, p render.FillInPage) ([]byte, error) {
	s := p.Session
	if s == nil {
		return nil, render.ErrNoSession
	}
	if p.Title != "" {
		if err := r.driver.Info(ctx, r.theme.Title.Render(p.Title)); err != nil {
			return nil, err
		}
	}

	schema := s.Schema()
	pending := schema
	for attempt := 1; ; attempt++ {
		if err := r.promptAll(ctx, s, pending, attempt == 1); err != nil {
			return nil, err
		}

		outcome, err := s.Submit(ctx)
		switch {
		case errors.Is(err, session.ErrSubmitted):
			return []byte(r.thankYou(p.Title, string(session.NoticeSubmitted))), nil
		case errors.Is(err, session.ErrPersistence):
			if infoErr := r.driver.Info(ctx, r.theme.Error.Render(string(session.NoticeSubmitFailed))); infoErr != nil {
				return nil, infoErr
			}
			retry, askErr := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try submitting again?", Default: true})
			if askErr != nil {
				return nil, translateSurveyErr(askErr)
			}
			if !retry {
				return nil, fmt.Errorf("%w: %w", ErrGaveUp, err)
			}
			pending = nil
			continue
		case err != nil:
			return nil, err
		}

		if outcome.Submitted {
			return []byte(r.thankYou(p.Title, string(session.NoticeSubmitted))), nil
		}

		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return nil, fmt.Errorf("%w: still invalid after %d attempts", ErrGaveUp, attempt)
		}
		if err := r.driver.Info(ctx, r.theme.Error.Render(string(outcome.Snapshot.Notice))); err != nil {
			return nil, err
		}
		pending = failed(schema, outcome.Errors)
	}
}

// promptAll asks for every instance in order. Structural elements are only
// printed, and only on the first pass.
func (r *Renderer) promptAll(ctx context.Context, s *session.Session, instances []element.Instance, first bool) error {
	for _, inst := range instances {
		def, err := element.Lookup(inst.Type)
		if err != nil {
			return err
		}
		snap := s.Snapshot()
		view := def.FillIn(inst, snap.FieldState(inst.ID))

		if !def.Submittable() {
			if !first {
				continue
			}
			if line := r.structural(inst.Type, view.Data); line != "" {
				if err := r.driver.Info(ctx, line); err != nil {
					return err
				}
			}
			continue
		}

		value, err := r.prompt(ctx, inst, view.Data)
		if err != nil {
			return translateSurveyErr(err)
		}
		if _, err := s.Blur(inst.ID, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) prompt(ctx context.Context, inst element.Instance, data map[string]any) (string, error) {
	message := stringOf(data, "label")
	if message == "" {
		message = inst.ID
	}
	if boolOf(data, "required") {
		message += " *"
	}
	help := stringOf(data, "helperText")
	current := stringOf(data, "value")
	if boolOf(data, "invalid") {
		message = r.theme.Error.Render(message)
	}

	switch inst.Type {
	case element.TagCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current != "", Help: help})
		if err != nil || !checked {
			return "", err
		}
		return "true", nil
	case element.TagSelectField:
		options := stringsOf(data, "options")
		if !boolOf(data, "required") {
			options = append([]string{noneOption}, options...)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: max(indexOf(options, current), 0),
			Help:         help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) || options[idx] == noneOption {
			return "", nil
		}
		return options[idx], nil
	case element.TagTextAreaField:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current, Help: help})
	default:
		return r.driver.Input(ctx, InputConfig{
			Message:     message,
			Default:     current,
			Help:        help,
			Placeholder: stringOf(data, "placeholder"),
			Validator: func(value string) error {
				if !element.ValidateField(inst.Type, inst, value) {
					return errors.New("this field is required")
				}
				return nil
			},
		})
	}
}

func (r *Renderer) structural(tag element.Tag, data map[string]any) string {
	switch tag {
	case element.TagTitleField:
		return r.theme.Title.Render(stringOf(data, "title"))
	case element.TagSubTitleField:
		return r.theme.Subtitle.Render(stringOf(data, "title"))
	case element.TagParagraphField:
		return r.theme.Paragraph.Render(stringOf(data, "text"))
	case element.TagSeperatorField:
		return r.theme.Muted.Render(r.theme.Separator)
	case element.TagSpacerField:
		return ""
	default:
		return ""
	}
}

func (r *Renderer) thankYou(title, message string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(r.theme.Title.Render(title))
		b.WriteByte('\n')
	}
	b.WriteString(r.theme.Success.Render(message))
	b.WriteByte('\n')
	return b.String()
}

// designer lists the elements of a form the way the palette names them.
func (r *Renderer) designer(p render.DesignerPage) string {
	var b strings.Builder
	b.WriteString(r.theme.Title.Render(p.Name))
	b.WriteByte('\n')
	if p.Description != "" {
		b.WriteString(r.theme.Muted.Render(p.Description))
		b.WriteByte('\n')
	}
	if len(p.Elements) == 0 {
		b.WriteString(r.theme.Muted.Render("Drop here"))
		b.WriteByte('\n')
		return b.String()
	}
	for i, inst := range p.Elements {
		label := inst.Label()
		if label == "" {
			if def, err := element.Lookup(inst.Type); err == nil {
				label = structuralSummary(def.Designer(inst).Data)
			}
		}
		marker := ""
		if inst.Required() {
			marker = " *"
		}
		fmt.Fprintf(&b, "%2d. %-15s %s%s\n", i+1, inst.Type, label, marker)
	}
	return b.String()
}

func (r *Renderer) submissions(p render.SubmissionsPage) string {
	var b strings.Builder
	b.WriteString(r.theme.Title.Render(p.Name))
	b.WriteByte('\n')

	headers := make([]string, 0, len(p.Table.Columns)+1)
	for _, column := range p.Table.Columns {
		headers = append(headers, column.Label)
	}
	headers = append(headers, "Submitted at")
	b.WriteString(strings.Join(headers, " | "))
	b.WriteByte('\n')

	if len(p.Table.Rows) == 0 {
		b.WriteString(r.theme.Muted.Render("No results"))
		b.WriteByte('\n')
		return b.String()
	}
	for _, row := range p.Table.Rows {
		cells := append(append([]string(nil), row.Cells...), row.SubmittedAt.UTC().Format("2006-01-02 15:04"))
		b.WriteString(strings.Join(cells, " | "))
		b.WriteByte('\n')
	}
	return b.String()
}

func failed(schema []element.Instance, errs map[string]bool) []element.Instance {
	out := make([]element.Instance, 0, len(errs))
	for _, inst := range schema {
		if errs[inst.ID] {
			out = append(out, inst)
		}
	}
	return out
}

func structuralSummary(data map[string]any) string {
	for _, key := range []string{"title", "text"} {
		if text := stringOf(data, key); text != "" {
			return text
		}
	}
	return ""
}

func stringOf(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func boolOf(data map[string]any, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func stringsOf(data map[string]any, key string) []string {
	if values, ok := data[key].([]string); ok {
		return append([]string(nil), values...)
	}
	return nil
}
