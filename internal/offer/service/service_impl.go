package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/authorization"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/offer/domain"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"go.uber.org/zap"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	authz authorization.Service
	genID *uuidv7.Generator
	clock clock.Clock
}

func NewService(
	log *zap.Logger,
	repo domain.Repository,
	authz authorization.Service,
	genID *uuidv7.Generator,
	clk clock.Clock,
) domain.Service {
	return &service{
		log:   log.Named("offer.service"),
		repo:  repo,
		authz: authz,
		genID: genID,
		clock: clk,
	}
}

func actor(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

func (s *service) Create(ctx context.Context, actingUserID uuid.UUID, req domain.CreateOfferRequest) (*domain.Offer, error) {
	if err := s.authz.Authorize(ctx, actor(actingUserID), req.OrganisationID.String(), authorization.ObjectOffer, authorization.ActionCreate); err != nil {
		return nil, err
	}

	nameEng := strings.TrimSpace(req.NameEng)
	if nameEng == "" {
		return nil, domain.ErrInvalidOffer
	}

	exists, err := s.repo.ExistsByOrganisationAndName(ctx, req.OrganisationID, nameEng, req.NamePl)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrOfferExists
	}

	now := s.clock.Now()
	offer := &domain.Offer{
		ID:                   s.genID.Generate(),
		OrganisationID:       req.OrganisationID,
		NameEng:              nameEng,
		NamePl:               strings.TrimSpace(req.NamePl),
		DescriptionEng:       req.DescriptionEng,
		DescriptionPl:        req.DescriptionPl,
		ProfileImage:         req.ProfileImage,
		ProfileImageMimeType: req.ProfileImageMimeType,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.log.Info("offer created",
		zap.String("offer_id", offer.ID.String()),
		zap.String("organisation_id", offer.OrganisationID.String()),
	)
	return offer, nil
}

func (s *service) Update(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, req domain.UpdateOfferRequest) (*domain.Offer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, actor(actingUserID), offer.OrganisationID.String(), authorization.ObjectOffer, authorization.ActionUpdate); err != nil {
		return nil, err
	}

	if req.NameEng != nil {
		trimmed := strings.TrimSpace(*req.NameEng)
		if trimmed == "" {
			return nil, domain.ErrInvalidOffer
		}
		offer.NameEng = trimmed
	}
	if req.NamePl != nil {
		offer.NamePl = strings.TrimSpace(*req.NamePl)
	}
	if req.DescriptionEng != nil {
		offer.DescriptionEng = *req.DescriptionEng
	}
	if req.DescriptionPl != nil {
		offer.DescriptionPl = *req.DescriptionPl
	}
	if req.ProfileImage != nil {
		offer.ProfileImage = req.ProfileImage
	}
	if req.ProfileImageMimeType != nil {
		offer.ProfileImageMimeType = *req.ProfileImageMimeType
	}
	offer.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *service) Delete(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) error {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(ctx, actor(actingUserID), offer.OrganisationID.String(), authorization.ObjectOffer, authorization.ActionDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("offer deleted",
		zap.String("offer_id", id.String()),
		zap.String("organisation_id", offer.OrganisationID.String()),
	)
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetImage(ctx context.Context, id uuid.UUID) (*domain.OfferImage, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(offer.ProfileImage) == 0 {
		return nil, domain.ErrImageNotFound
	}
	return &domain.OfferImage{
		Data:     offer.ProfileImage,
		MimeType: offer.ProfileImageMimeType,
	}, nil
}

func (s *service) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]domain.Offer, error) {
	return s.repo.ListByOrganisation(ctx, organisationID)
}

func (s *service) Search(ctx context.Context, organisationID *uuid.UUID, query string) ([]domain.Offer, error) {
	return s.repo.Search(ctx, organisationID, query)
}
