package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/therapist/domain"
	"go.uber.org/zap"
)

// specializationService serves the practice-area catalog. The catalog
// is seeded by migration and read-only at runtime.
type specializationService struct {
	log  *zap.Logger
	repo domain.SpecializationRepository
}

func NewSpecializationService(log *zap.Logger, repo domain.SpecializationRepository) domain.SpecializationService {
	return &specializationService{
		log:  log.Named("specialization.service"),
		repo: repo,
	}
}

func (s *specializationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Specialization, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *specializationService) List(ctx context.Context, category string) ([]domain.Specialization, error) {
	return s.repo.ListActive(ctx, category)
}

func (s *specializationService) Search(ctx context.Context, query string) ([]domain.Specialization, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.ListActive(ctx, "")
	}
	return s.repo.Search(ctx, query)
}

func (s *specializationService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
