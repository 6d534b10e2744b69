// Package domain contains persistence models for the organisation service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organisation represents a tenant.
type Organisation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Slug        string    `gorm:"type:text;not null;uniqueIndex:ux_organisations_slug" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organisation) TableName() string { return "organisations" }

// OrganisationMember binds one user to one organisation with a role.
// At most one membership may exist per (user, organisation) pair.
type OrganisationMember struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganisationID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_org_member,priority:1" json:"organisation_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_org_member,priority:2" json:"user_id"`
	Role           string    `gorm:"type:text;not null" json:"role"`
	JoinedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`
}

// TableName sets the database table name.
func (OrganisationMember) TableName() string { return "organisation_members" }

// Invitation is an offer of membership in an organisation. Status is
// monotonic: once it leaves PENDING it never returns.
type Invitation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganisationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organisation_id"`
	Email          string     `gorm:"type:text;not null;index" json:"email"`
	Role           string     `gorm:"type:text;not null" json:"role"`
	Status         string     `gorm:"type:text;not null" json:"status"`
	InvitedBy      *uuid.UUID `gorm:"type:uuid;column:invited_by" json:"invited_by,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "organisation_invitations" }
