package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/offer/domain"
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

func (r *repo) Create(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *repo) Save(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

func (r *repo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	var offer domain.Offer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&offer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Offer{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

func (r *repo) ExistsByOrganisationAndName(ctx context.Context, organisationID uuid.UUID, nameEng, namePl string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("organisation_id = ? AND (LOWER(name_eng) = LOWER(?) OR (name_pl <> '' AND LOWER(name_pl) = LOWER(?)))",
			organisationID, strings.TrimSpace(nameEng), strings.TrimSpace(namePl)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := r.db.WithContext(ctx).
		Where("organisation_id = ?", organisationID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repo) Search(ctx context.Context, organisationID *uuid.UUID, query string) ([]domain.Offer, error) {
	var offers []domain.Offer
	q := r.db.WithContext(ctx).Model(&domain.Offer{})
	if organisationID != nil {
		q = q.Where("organisation_id = ?", *organisationID)
	}
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		q = q.Where(
			"LOWER(name_eng) LIKE ? OR LOWER(name_pl) LIKE ? OR LOWER(description_eng) LIKE ? OR LOWER(description_pl) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if err := q.Order("created_at DESC").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}
