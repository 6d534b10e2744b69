package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOfferNotFound = errors.New("offer_not_found")
	ErrOfferExists   = errors.New("offer_exists")
	ErrInvalidOffer  = errors.New("invalid_offer")
	ErrImageNotFound = errors.New("offer_image_not_found")
)

type CreateOfferRequest struct {
	OrganisationID       uuid.UUID
	NameEng              string
	NamePl               string
	DescriptionEng       string
	DescriptionPl        string
	ProfileImage         []byte
	ProfileImageMimeType string
}

type UpdateOfferRequest struct {
	NameEng              *string
	NamePl               *string
	DescriptionEng       *string
	DescriptionPl        *string
	ProfileImage         []byte
	ProfileImageMimeType *string
}

type OfferImage struct {
	Data     []byte
	MimeType string
}

type Service interface {
	Create(ctx context.Context, actingUserID uuid.UUID, req CreateOfferRequest) (*Offer, error)
	Update(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, req UpdateOfferRequest) (*Offer, error)
	Delete(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Offer, error)
	GetImage(ctx context.Context, id uuid.UUID) (*OfferImage, error)
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]Offer, error)
	Search(ctx context.Context, organisationID *uuid.UUID, query string) ([]Offer, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, offer *Offer) error
	Save(ctx context.Context, offer *Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByOrganisationAndName(ctx context.Context, organisationID uuid.UUID, nameEng, namePl string) (bool, error)
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]Offer, error)
	Search(ctx context.Context, organisationID *uuid.UUID, query string) ([]Offer, error)
}
