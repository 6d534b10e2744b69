package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdministrator = "ADMINISTRATOR"
	RoleMember        = "MEMBER"
)

const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusDeclined = "DECLINED"
	StatusExpired  = "EXPIRED"
)

// InvitationTTL is how long an invitation stays acceptable after creation.
const InvitationTTL = 7 * 24 * time.Hour

var (
	ErrInvalidName            = errors.New("invalid_name")
	ErrInvalidEmail           = errors.New("invalid_email")
	ErrInvalidRole            = errors.New("invalid_role")
	ErrOrganisationNotFound   = errors.New("organisation_not_found")
	ErrOrganisationExists     = errors.New("organisation_exists")
	ErrMembershipNotFound     = errors.New("membership_not_found")
	ErrAlreadyMember          = errors.New("already_member")
	ErrCannotRemoveSelf       = errors.New("cannot_remove_self")
	ErrInvitationNotFound     = errors.New("invitation_not_found")
	ErrActiveInvitationExists = errors.New("active_invitation_exists")
	ErrInvitationNotPending   = errors.New("invitation_not_pending")
	ErrInvitationExpired      = errors.New("invitation_expired")
	ErrForbidden              = errors.New("forbidden")
)

type CreateOrganisationRequest struct {
	Name        string
	Description string
}

type OrganisationListItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateOrganisationRequest) (*Organisation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Organisation, error)
	GetBySlug(ctx context.Context, slug string) (*Organisation, error)
	Search(ctx context.Context, query string) ([]Organisation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrganisationListItem, error)
}

// MembershipService is the single source of truth for who holds which
// role in which organisation. Absence of a row means no access.
type MembershipService interface {
	RoleOf(ctx context.Context, userID, organisationID uuid.UUID) (string, bool, error)
	IsAdministrator(ctx context.Context, userID, organisationID uuid.UUID) (bool, error)
	Add(ctx context.Context, userID, organisationID uuid.UUID, role string) (*OrganisationMember, error)
	Remove(ctx context.Context, userID, organisationID uuid.UUID) error
	RemoveMember(ctx context.Context, actingUserID, targetUserID, organisationID uuid.UUID) error
	ListMembers(ctx context.Context, actingUserID, organisationID uuid.UUID) ([]OrganisationMember, error)
}

type CreateInvitationRequest struct {
	OrganisationID uuid.UUID
	Email          string
	Role           string
}

type InvitationService interface {
	Create(ctx context.Context, actingUserID uuid.UUID, req CreateInvitationRequest) (*Invitation, error)
	Accept(ctx context.Context, requesterEmail string, invitationID uuid.UUID) (*Invitation, error)
	Decline(ctx context.Context, requesterEmail string, invitationID uuid.UUID) (*Invitation, error)
	Cancel(ctx context.Context, actingUserID uuid.UUID, invitationID uuid.UUID) (*Invitation, error)
	ListForOrganisation(ctx context.Context, actingUserID, organisationID uuid.UUID) ([]Invitation, error)
}

// UserLookup resolves invitation emails to user accounts without
// coupling this package to the auth storage layer.
type UserLookup interface {
	FindIDByEmail(ctx context.Context, email string) (uuid.UUID, error)
}

// ErrUserLookupNotFound is returned by UserLookup when no account
// matches the email.
var ErrUserLookupNotFound = errors.New("user_lookup_not_found")

func ValidRole(role string) bool {
	return role == RoleAdministrator || role == RoleMember
}
