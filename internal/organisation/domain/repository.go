package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganisationRepository interface {
	WithTx(tx *gorm.DB) OrganisationRepository
	Create(ctx context.Context, org *Organisation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Organisation, error)
	FindBySlug(ctx context.Context, slug string) (*Organisation, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, query string) ([]Organisation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrganisationListItem, error)
}

type MembershipRepository interface {
	WithTx(tx *gorm.DB) MembershipRepository
	Create(ctx context.Context, member *OrganisationMember) error
	FindByKey(ctx context.Context, userID, organisationID uuid.UUID) (*OrganisationMember, error)
	Delete(ctx context.Context, userID, organisationID uuid.UUID) error
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]OrganisationMember, error)
}

type InvitationRepository interface {
	WithTx(tx *gorm.DB) InvitationRepository
	Create(ctx context.Context, invitation *Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	FindActiveByEmailAndOrganisation(ctx context.Context, email string, organisationID uuid.UUID, now time.Time) (*Invitation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]Invitation, error)
}
