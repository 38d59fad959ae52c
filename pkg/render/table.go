package render

import (
	"fmt"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

// Column is one submittable element of the form.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// SubmissionRow holds one submission's values in column order.
type SubmissionRow struct {
	ID          int64     `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`
	Cells       []string  `json:"cells"`
}

// SubmissionTable is what the submissions screen shows.
type SubmissionTable struct {
	Columns []Column        `json:"columns"`
	Rows    []SubmissionRow `json:"rows"`
}

// BuildSubmissionTable derives columns from the submittable elements of s and
// lays out each submission's values under them. Values for ids no longer in
// the form are dropped.
func BuildSubmissionTable(s schema.Schema, submissions []store.Submission) (SubmissionTable, error) {
	fields := s.Submittable()
	table := SubmissionTable{
		Columns: make([]Column, 0, len(fields)),
		Rows:    make([]SubmissionRow, 0, len(submissions)),
	}
	for _, inst := range fields {
		table.Columns = append(table.Columns, Column{ID: inst.ID, Label: columnLabel(inst), Type: string(inst.Type)})
	}

	for _, sub := range submissions {
		values, err := schema.DecodeValues(sub.Content)
		if err != nil {
			return SubmissionTable{}, fmt.Errorf("render: submission %d: %w", sub.ID, err)
		}
		row := SubmissionRow{ID: sub.ID, SubmittedAt: sub.CreatedAt, Cells: make([]string, len(fields))}
		for i, inst := range fields {
			row.Cells[i] = values[inst.ID]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func columnLabel(inst element.Instance) string {
	if label := inst.Label(); label != "" {
		return label
	}
	return inst.ID
}
