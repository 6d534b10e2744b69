package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/therapist/domain"
	"gorm.io/gorm"
)

type specializationRepo struct {
	db *gorm.DB
}

func NewSpecializationRepository(db *gorm.DB) domain.SpecializationRepository {
	return &specializationRepo{db: db}
}

func (r *specializationRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Specialization, error) {
	var specialization domain.Specialization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&specialization).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSpecializationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &specialization, nil
}

func (r *specializationRepo) ListActive(ctx context.Context, category string) ([]domain.Specialization, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		q = q.Where("category = ?", trimmed)
	}

	var specializations []domain.Specialization
	if err := q.Order("name_eng ASC").Find(&specializations).Error; err != nil {
		return nil, err
	}
	return specializations, nil
}

func (r *specializationRepo) Search(ctx context.Context, query string) ([]domain.Specialization, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var specializations []domain.Specialization
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("LOWER(name_eng) LIKE ? OR LOWER(name_pl) LIKE ?", pattern, pattern).
		Order("name_eng ASC").
		Find(&specializations).Error
	if err != nil {
		return nil, err
	}
	return specializations, nil
}

func (r *specializationRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&domain.Specialization{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
