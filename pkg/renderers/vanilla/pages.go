package vanilla

import (
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

const submittedAtLayout = "2006-01-02 15:04"

func (r *Renderer) designer(p render.DesignerPage, opts render.RenderOptions) (string, error) {
	elements := make([]map[string]any, 0, len(p.Elements))
	for _, inst := range p.Elements {
		html, err := r.RenderDesigner(inst, opts)
		if err != nil {
			return "", err
		}
		item := map[string]any{"id": inst.ID, "html": html}
		if opts.Actions.PropertiesPrefix != "" && !p.Published {
			item["propertiesURL"] = joinURL(opts.Actions.PropertiesPrefix, inst.ID)
		}
		elements = append(elements, item)
	}

	return r.page("designer", map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"published":   p.Published,
		"shareURL":    p.ShareURL,
		"elements":    elements,
	})
}

func (r *Renderer) fillIn(p render.FillInPage, opts render.RenderOptions) (string, error) {
	if p.Session == nil {
		return "", render.ErrNoSession
	}
	snap := p.Session.Snapshot()

	elements := make([]string, 0)
	for _, inst := range p.Session.Schema() {
		html, err := r.RenderFillIn(inst, snap.FieldState(inst.ID), opts)
		if err != nil {
			return "", err
		}
		elements = append(elements, html)
	}

	hidden := render.MergeHiddenFields(opts.Hidden, render.SessionField(snap.ID))
	return r.page("fillin", map[string]any{
		"action":     opts.Actions.Submit,
		"epoch":      snap.Epoch,
		"hidden":     hiddenData(hidden),
		"notice":     string(snap.Notice),
		"noticeKind": noticeKind(snap.Notice),
		"elements":   elements,
		"submitted":  snap.State == session.StateSubmitted,
		"submitting": snap.State == session.StateSubmitting,
		"canSubmit":  snap.CanSubmit(),
	})
}

func (r *Renderer) properties(p render.PropertiesPage, opts render.RenderOptions) (string, error) {
	body, err := r.RenderProperties(p.Element, opts)
	if err != nil {
		return "", err
	}
	label := p.Element.Label()
	if label == "" {
		label = string(p.Element.Type)
	}
	return r.page("properties", map[string]any{
		"action":   opts.Actions.Apply,
		"hidden":   hiddenData(opts.Hidden),
		"label":    label,
		"error":    p.Error,
		"body":     body,
		"back":     opts.Actions.Back,
		"editable": opts.Actions.Apply != "",
	})
}

func (r *Renderer) submissions(p render.SubmissionsPage, opts render.RenderOptions) (string, error) {
	columns := make([]map[string]any, 0, len(p.Table.Columns))
	for _, column := range p.Table.Columns {
		columns = append(columns, map[string]any{"id": column.ID, "label": column.Label})
	}
	rows := make([]map[string]any, 0, len(p.Table.Rows))
	for _, row := range p.Table.Rows {
		rows = append(rows, map[string]any{
			"id":          row.ID,
			"cells":       row.Cells,
			"iso":         row.SubmittedAt.UTC().Format(time.RFC3339),
			"submittedAt": row.SubmittedAt.UTC().Format(submittedAtLayout),
		})
	}
	return r.page("submissions", map[string]any{
		"name":    p.Name,
		"back":    opts.Actions.Back,
		"columns": columns,
		"rows":    rows,
		"span":    len(columns) + 1,
	})
}

func hiddenData(fields map[string]string) []map[string]any {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]any, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}

func noticeKind(notice session.Notice) string {
	switch notice {
	case session.NoticeValidationFailed, session.NoticeSubmitFailed:
		return "error"
	case session.NoticeSubmitted:
		return "success"
	default:
		return ""
	}
}

func joinURL(prefix, id string) string {
	return strings.TrimRight(prefix, "/") + "/" + id
}
