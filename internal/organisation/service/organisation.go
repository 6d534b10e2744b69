package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/organisation/domain"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type organisationService struct {
	log     *zap.Logger
	db      *gorm.DB
	orgs    domain.OrganisationRepository
	members domain.MembershipRepository
	genID   *uuidv7.Generator
	clock   clock.Clock
}

func NewOrganisationService(
	log *zap.Logger,
	db *gorm.DB,
	orgs domain.OrganisationRepository,
	members domain.MembershipRepository,
	genID *uuidv7.Generator,
	clk clock.Clock,
) domain.Service {
	return &organisationService{
		log:     log.Named("organisation.service"),
		db:      db,
		orgs:    orgs,
		members: members,
		genID:   genID,
		clock:   clk,
	}
}

// Create provisions the organisation and grants the creator the
// administrator role in the same transaction. There is no window where
// the organisation exists without an administrator.
func (s *organisationService) Create(ctx context.Context, userID uuid.UUID, req domain.CreateOrganisationRequest) (*domain.Organisation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	exists, err := s.orgs.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrOrganisationExists
	}

	now := s.clock.Now()
	org := &domain.Organisation{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Distinct names can still slugify to the same value, so the
		// unique slug index is the final arbiter.
		if err := s.orgs.WithTx(tx).Create(ctx, org); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrOrganisationExists
			}
			return err
		}

		member := &domain.OrganisationMember{
			ID:             s.genID.Generate(),
			OrganisationID: org.ID,
			UserID:         userID,
			Role:           domain.RoleAdministrator,
			JoinedAt:       now,
		}
		return s.members.WithTx(tx).Create(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("organisation created",
		zap.String("organisation_id", org.ID.String()),
		zap.String("creator_id", userID.String()),
	)
	return org, nil
}

func (s *organisationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organisation, error) {
	return s.orgs.FindByID(ctx, id)
}

func (s *organisationService) GetBySlug(ctx context.Context, slugName string) (*domain.Organisation, error) {
	return s.orgs.FindBySlug(ctx, slugName)
}

func (s *organisationService) Search(ctx context.Context, query string) ([]domain.Organisation, error) {
	return s.orgs.Search(ctx, query)
}

func (s *organisationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.OrganisationListItem, error) {
	return s.orgs.ListByUser(ctx, userID)
}
