// Package sqlite implements store.Store on a single SQLite database file using
// the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formbuilder/pkg/store"
)

// Fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS forms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '[]',
	published BOOLEAN NOT NULL DEFAULT 0,
	visits INTEGER NOT NULL DEFAULT 0,
	submissions INTEGER NOT NULL DEFAULT 0,
	share_url TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS form_submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	form_id INTEGER NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS form_submissions_form_id ON form_submissions(form_id);
`

const formColumns = `id, owner_id, name, description, content, published, visits, submissions, share_url, created_at`

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for created_at values.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is a store.Store backed by database/sql.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open opens (creating when needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One connection keeps in-memory databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateForm(ctx context.Context, ownerID, name, description string) (store.Form, error) {
	form, err := store.NewForm(ownerID, name, description, s.now())
	if err != nil {
		return store.Form{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO forms (owner_id, name, description, content, share_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		form.OwnerID, form.Name, form.Description, form.Content, form.ShareURL, form.CreatedAt.Format(timeLayout))
	if err != nil {
		return store.Form{}, fmt.Errorf("sqlite: insert form: %w", err)
	}
	if form.ID, err = res.LastInsertId(); err != nil {
		return store.Form{}, fmt.Errorf("sqlite: form id: %w", err)
	}
	return form, nil
}

func (s *Store) Forms(ctx context.Context, ownerID string) ([]store.Form, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+formColumns+` FROM forms WHERE owner_id = ? ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list forms: %w", err)
	}
	defer rows.Close()

	forms := []store.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list forms: %w", err)
	}
	return forms, nil
}

func (s *Store) Form(ctx context.Context, id int64) (store.Form, error) {
	return queryForm(ctx, s.db, `WHERE id = ?`, id)
}

func (s *Store) FormByShareURL(ctx context.Context, shareURL string) (store.Form, error) {
	return queryForm(ctx, s.db, `WHERE share_url = ?`, shareURL)
}

func (s *Store) UpdateContent(ctx context.Context, ownerID string, id int64, content string) (store.Form, error) {
	return s.writeContent(ctx, ownerID, id, content, false)
}

func (s *Store) Publish(ctx context.Context, ownerID string, id int64, content string) (store.Form, error) {
	return s.writeContent(ctx, ownerID, id, content, true)
}

func (s *Store) writeContent(ctx context.Context, ownerID string, id int64, content string, publish bool) (store.Form, error) {
	var updated store.Form
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		form, err := ownedForm(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if form.Published {
			return store.ErrPublished
		}

		form.Content = store.NormalizeContent(content)
		form.Published = publish
		if _, err := tx.ExecContext(ctx,
			`UPDATE forms SET content = ?, published = ? WHERE id = ?`,
			form.Content, form.Published, id); err != nil {
			return fmt.Errorf("sqlite: update form: %w", err)
		}
		updated = form
		return nil
	})
	return updated, err
}

func (s *Store) DeleteForm(ctx context.Context, ownerID string, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := ownedForm(ctx, tx, ownerID, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM form_submissions WHERE form_id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: delete submissions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: delete form: %w", err)
		}
		return nil
	})
}

func (s *Store) RecordVisit(ctx context.Context, id int64) (store.Form, error) {
	var form store.Form
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE forms SET visits = visits + 1 WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: record visit: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("sqlite: record visit: %w", err)
		} else if n == 0 {
			return store.ErrNotFound
		}
		form, err = queryForm(ctx, tx, `WHERE id = ?`, id)
		return err
	})
	return form, err
}

func (s *Store) Submit(ctx context.Context, shareURL, content string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM forms WHERE share_url = ? AND published = 1`, shareURL).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("sqlite: find form: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO form_submissions (form_id, content, created_at) VALUES (?, ?, ?)`,
			id, content, s.now().UTC().Format(timeLayout)); err != nil {
			return fmt.Errorf("sqlite: insert submission: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE forms SET submissions = submissions + 1 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: count submission: %w", err)
		}
		return nil
	})
}

func (s *Store) Submissions(ctx context.Context, formID int64) ([]store.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, form_id, content, created_at FROM form_submissions WHERE form_id = ? ORDER BY created_at, id`, formID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list submissions: %w", err)
	}
	defer rows.Close()

	subs := []store.Submission{}
	for rows.Next() {
		var (
			sub     store.Submission
			created string
		)
		if err := rows.Scan(&sub.ID, &sub.FormID, &sub.Content, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan submission: %w", err)
		}
		if sub.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("sqlite: parse submission time: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list submissions: %w", err)
	}
	return subs, nil
}

func (s *Store) Stats(ctx context.Context, ownerID string) (store.Stats, error) {
	var visits, submissions int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(visits), 0), COALESCE(SUM(submissions), 0) FROM forms WHERE owner_id = ?`,
		ownerID).Scan(&visits, &submissions)
	if err != nil {
		return store.Stats{}, fmt.Errorf("sqlite: stats: %w", err)
	}
	return store.ComputeStats(visits, submissions), nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func queryForm(ctx context.Context, q queryer, where string, args ...any) (store.Form, error) {
	form, err := scanForm(q.QueryRowContext(ctx, `SELECT `+formColumns+` FROM forms `+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return store.Form{}, store.ErrNotFound
	}
	return form, err
}

func ownedForm(ctx context.Context, q queryer, ownerID string, id int64) (store.Form, error) {
	form, err := queryForm(ctx, q, `WHERE id = ?`, id)
	if err != nil {
		return store.Form{}, err
	}
	if form.OwnerID != ownerID {
		return store.Form{}, store.ErrForbidden
	}
	return form, nil
}

func scanForm(row scanner) (store.Form, error) {
	var (
		form    store.Form
		created string
	)
	err := row.Scan(&form.ID, &form.OwnerID, &form.Name, &form.Description, &form.Content,
		&form.Published, &form.Visits, &form.Submissions, &form.ShareURL, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Form{}, err
		}
		return store.Form{}, fmt.Errorf("sqlite: scan form: %w", err)
	}
	if form.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return store.Form{}, fmt.Errorf("sqlite: parse form time: %w", err)
	}
	return form, nil
}
