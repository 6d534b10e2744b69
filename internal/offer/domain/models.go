// Package domain contains persistence models for the offer service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Offer is an organisation-scoped service listing with bilingual copy.
type Offer struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganisationID       uuid.UUID `gorm:"type:uuid;not null;index" json:"organisation_id"`
	NameEng              string    `gorm:"type:text;not null" json:"name_eng"`
	NamePl               string    `gorm:"type:text" json:"name_pl"`
	DescriptionEng       string    `gorm:"type:text" json:"description_eng"`
	DescriptionPl        string    `gorm:"type:text" json:"description_pl"`
	ProfileImage         []byte    `gorm:"type:bytea" json:"-"`
	ProfileImageMimeType string    `gorm:"type:text" json:"profile_image_mime_type,omitempty"`
	CreatedAt            time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Offer) TableName() string { return "offers" }
