package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/therapist/domain"
	"github.com/inspirationparticle/utro/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) domain.Repository {
	return &repo{db: tx}
}

func (r *repo) Create(ctx context.Context, therapist *domain.Therapist) error {
	return r.db.WithContext(ctx).Create(therapist).Error
}

func (r *repo) Save(ctx context.Context, therapist *domain.Therapist) error {
	return r.db.WithContext(ctx).Save(therapist).Error
}

func (r *repo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Therapist, error) {
	var therapist domain.Therapist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&therapist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTherapistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &therapist, nil
}

func (r *repo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Therapist, error) {
	var therapist domain.Therapist
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&therapist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTherapistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &therapist, nil
}

func (r *repo) FindBySlug(ctx context.Context, slug string) (*domain.Therapist, error) {
	var therapist domain.Therapist
	err := r.db.WithContext(ctx).Where("slug = ?", strings.TrimSpace(slug)).First(&therapist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTherapistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &therapist, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Therapist{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTherapistNotFound
	}
	return nil
}

func (r *repo) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]domain.Therapist, error) {
	var therapists []domain.Therapist
	err := r.db.WithContext(ctx).
		Where("organisation_id = ?", organisationID).
		Order("created_at DESC").
		Find(&therapists).Error
	if err != nil {
		return nil, err
	}
	return therapists, nil
}

// Search matches published, active, public profiles only. Results are
// keyed by (created_at, id) descending so the cursor is stable under
// concurrent inserts.
func (r *repo) Search(ctx context.Context, query string, limit int, cursor *pagination.Cursor) ([]domain.Therapist, error) {
	var therapists []domain.Therapist
	q := r.db.WithContext(ctx).
		Model(&domain.Therapist{}).
		Where("published_at IS NOT NULL AND is_active = ? AND visibility = ?", true, domain.VisibilityPublic)
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		q = q.Where(
			"LOWER(professional_title) LIKE ? OR LOWER(description_eng) LIKE ? OR LOWER(description_pl) LIKE ? OR LOWER(meta_description) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if cursor != nil {
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		id, err := uuid.Parse(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&therapists).Error; err != nil {
		return nil, err
	}
	return therapists, nil
}

// ReplaceSpecializations swaps the profile's catalog links for the
// given set inside one transaction.
func (r *repo) ReplaceSpecializations(ctx context.Context, therapistID uuid.UUID, links []domain.TherapistSpecialization) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("therapist_id = ?", therapistID).Delete(&domain.TherapistSpecialization{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

func (r *repo) ListSpecializations(ctx context.Context, therapistID uuid.UUID) ([]domain.TherapistSpecialization, error) {
	var links []domain.TherapistSpecialization
	err := r.db.WithContext(ctx).
		Where("therapist_id = ?", therapistID).
		Order("is_primary DESC, created_at ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repo) ReplaceEducation(ctx context.Context, therapistID uuid.UUID, entries []domain.TherapistEducation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("therapist_id = ?", therapistID).Delete(&domain.TherapistEducation{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *repo) ListEducation(ctx context.Context, therapistID uuid.UUID) ([]domain.TherapistEducation, error) {
	var entries []domain.TherapistEducation
	err := r.db.WithContext(ctx).
		Where("therapist_id = ?", therapistID).
		Order("display_order ASC, graduation_year DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) ReplaceCertifications(ctx context.Context, therapistID uuid.UUID, entries []domain.TherapistCertification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("therapist_id = ?", therapistID).Delete(&domain.TherapistCertification{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *repo) ListCertifications(ctx context.Context, therapistID uuid.UUID) ([]domain.TherapistCertification, error) {
	var entries []domain.TherapistCertification
	err := r.db.WithContext(ctx).
		Where("therapist_id = ?", therapistID).
		Order("display_order ASC, issue_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
