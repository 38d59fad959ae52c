// Package gormstore implements store.Store with GORM on PostgreSQL.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/goliatone/go-formbuilder/pkg/store"
)

type formModel struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	OwnerID     string         `gorm:"not null;index"`
	Name        string         `gorm:"not null"`
	Description string         `gorm:"not null;default:''"`
	Content     datatypes.JSON `gorm:"type:json;not null"`
	Published   bool           `gorm:"not null;default:false"`
	Visits      int64          `gorm:"not null;default:0"`
	Submissions int64          `gorm:"not null;default:0"`
	ShareURL    string         `gorm:"not null;uniqueIndex"`
	CreatedAt   time.Time

	FormSubmissions []submissionModel `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`
}

func (formModel) TableName() string { return "forms" }

// Content uses json rather than jsonb so stored text comes back unchanged.
type submissionModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	FormID    int64          `gorm:"not null;index"`
	Content   datatypes.JSON `gorm:"type:json;not null"`
	CreatedAt time.Time
}

func (submissionModel) TableName() string { return "form_submissions" }

// Store is a store.Store backed by a *gorm.DB.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open connects to PostgreSQL with dsn and migrates the tables.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gormstore: connect: %w", err)
	}
	return New(ctx, db)
}

// New wraps an existing connection and migrates the tables.
func New(ctx context.Context, db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("gormstore: nil db")
	}
	if err := db.WithContext(ctx).AutoMigrate(&formModel{}, &submissionModel{}); err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreateForm(ctx context.Context, ownerID, name, description string) (store.Form, error) {
	form, err := store.NewForm(ownerID, name, description, s.now())
	if err != nil {
		return store.Form{}, err
	}

	model := fromForm(form)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return store.Form{}, fmt.Errorf("gormstore: create form: %w", err)
	}
	return toForm(model), nil
}

func (s *Store) Forms(ctx context.Context, ownerID string) ([]store.Form, error) {
	var models []formModel
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("gormstore: list forms: %w", err)
	}

	forms := make([]store.Form, 0, len(models))
	for _, m := range models {
		forms = append(forms, toForm(m))
	}
	return forms, nil
}

func (s *Store) Form(ctx context.Context, id int64) (store.Form, error) {
	return first(s.db.WithContext(ctx), "id = ?", id)
}

func (s *Store) FormByShareURL(ctx context.Context, shareURL string) (store.Form, error) {
	return first(s.db.WithContext(ctx), "share_url = ?", shareURL)
}

func (s *Store) UpdateContent(ctx context.Context, ownerID string, id int64, content string) (store.Form, error) {
	return s.writeContent(ctx, ownerID, id, content, false)
}

func (s *Store) Publish(ctx context.Context, ownerID string, id int64, content string) (store.Form, error) {
	return s.writeContent(ctx, ownerID, id, content, true)
}

func (s *Store) writeContent(ctx context.Context, ownerID string, id int64, content string, publish bool) (store.Form, error) {
	var updated store.Form
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		form, err := owned(tx, ownerID, id)
		if err != nil {
			return err
		}
		if form.Published {
			return store.ErrPublished
		}

		form.Content = store.NormalizeContent(content)
		form.Published = publish
		err = tx.Model(&formModel{}).Where("id = ?", id).Updates(map[string]any{
			"content":   datatypes.JSON(form.Content),
			"published": form.Published,
		}).Error
		if err != nil {
			return fmt.Errorf("gormstore: update form: %w", err)
		}
		updated = form
		return nil
	})
	return updated, err
}

func (s *Store) DeleteForm(ctx context.Context, ownerID string, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := owned(tx, ownerID, id); err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&submissionModel{}).Error; err != nil {
			return fmt.Errorf("gormstore: delete submissions: %w", err)
		}
		if err := tx.Delete(&formModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("gormstore: delete form: %w", err)
		}
		return nil
	})
}

func (s *Store) RecordVisit(ctx context.Context, id int64) (store.Form, error) {
	var form store.Form
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&formModel{}).Where("id = ?", id).
			UpdateColumn("visits", gorm.Expr("visits + ?", 1))
		if result.Error != nil {
			return fmt.Errorf("gormstore: record visit: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		var err error
		form, err = first(tx, "id = ?", id)
		return err
	})
	return form, err
}

func (s *Store) Submit(ctx context.Context, shareURL, content string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model formModel
		err := tx.Select("id").First(&model, "share_url = ? AND published = ?", shareURL, true).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("gormstore: find form: %w", err)
		}

		sub := submissionModel{
			FormID:    model.ID,
			Content:   datatypes.JSON(content),
			CreatedAt: s.now().UTC(),
		}
		if err := tx.Create(&sub).Error; err != nil {
			return fmt.Errorf("gormstore: create submission: %w", err)
		}
		err = tx.Model(&formModel{}).Where("id = ?", model.ID).
			UpdateColumn("submissions", gorm.Expr("submissions + ?", 1)).Error
		if err != nil {
			return fmt.Errorf("gormstore: count submission: %w", err)
		}
		return nil
	})
}

func (s *Store) Submissions(ctx context.Context, formID int64) ([]store.Submission, error) {
	var models []submissionModel
	err := s.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("created_at").Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("gormstore: list submissions: %w", err)
	}

	subs := make([]store.Submission, 0, len(models))
	for _, m := range models {
		subs = append(subs, store.Submission{
			ID:        m.ID,
			FormID:    m.FormID,
			Content:   string(m.Content),
			CreatedAt: m.CreatedAt,
		})
	}
	return subs, nil
}

func (s *Store) Stats(ctx context.Context, ownerID string) (store.Stats, error) {
	var totals struct {
		Visits      int64
		Submissions int64
	}
	err := s.db.WithContext(ctx).Model(&formModel{}).
		Select("COALESCE(SUM(visits), 0) AS visits, COALESCE(SUM(submissions), 0) AS submissions").
		Where("owner_id = ?", ownerID).
		Scan(&totals).Error
	if err != nil {
		return store.Stats{}, fmt.Errorf("gormstore: stats: %w", err)
	}
	return store.ComputeStats(totals.Visits, totals.Submissions), nil
}

func first(db *gorm.DB, query string, args ...any) (store.Form, error) {
	var model formModel
	err := db.First(&model, append([]any{query}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Form{}, store.ErrNotFound
	}
	if err != nil {
		return store.Form{}, fmt.Errorf("gormstore: find form: %w", err)
	}
	return toForm(model), nil
}

func owned(db *gorm.DB, ownerID string, id int64) (store.Form, error) {
	form, err := first(db, "id = ?", id)
	if err != nil {
		return store.Form{}, err
	}
	if form.OwnerID != ownerID {
		return store.Form{}, store.ErrForbidden
	}
	return form, nil
}

func fromForm(f store.Form) formModel {
	return formModel{
		ID:          f.ID,
		OwnerID:     f.OwnerID,
		Name:        f.Name,
		Description: f.Description,
		Content:     datatypes.JSON(store.NormalizeContent(f.Content)),
		Published:   f.Published,
		Visits:      f.Visits,
		Submissions: f.Submissions,
		ShareURL:    f.ShareURL,
		// PostgreSQL keeps microseconds.
		CreatedAt: f.CreatedAt.Truncate(time.Microsecond),
	}
}

func toForm(m formModel) store.Form {
	return store.Form{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		Content:     string(m.Content),
		Published:   m.Published,
		Visits:      m.Visits,
		Submissions: m.Submissions,
		ShareURL:    m.ShareURL,
		CreatedAt:   m.CreatedAt,
	}
}
