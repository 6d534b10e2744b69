// Package domain contains persistence models for the therapist service.
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	VisibilityPublic       = "PUBLIC"
	VisibilityOrganisation = "ORGANISATION"
	VisibilityPrivate      = "PRIVATE"
)

// Therapist is a practitioner profile. Exactly one profile may exist
// per user account.
type Therapist struct {
	ID                    uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex:ux_therapists_user" json:"user_id"`
	OrganisationID        uuid.UUID                  `gorm:"type:uuid;not null;index" json:"organisation_id"`
	ProfessionalTitle     string                     `gorm:"type:text" json:"professional_title"`
	DescriptionEng        string                     `gorm:"type:text" json:"description_eng"`
	DescriptionPl         string                     `gorm:"type:text" json:"description_pl"`
	WorkExperienceEng     string                     `gorm:"type:text" json:"work_experience_eng"`
	WorkExperiencePl      string                     `gorm:"type:text" json:"work_experience_pl"`
	Languages             datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"languages"`
	SearchTags            datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"search_tags"`
	InPersonTherapyFormat bool                       `gorm:"not null;default:false" json:"in_person_therapy_format"`
	OnlineTherapyFormat   bool                       `gorm:"not null;default:false" json:"online_therapy_format"`
	ProfileImage          []byte                     `gorm:"type:bytea" json:"-"`
	ProfileImageMimeType  string                     `gorm:"type:text" json:"profile_image_mime_type,omitempty"`
	ContactEmail          string                     `gorm:"type:text" json:"contact_email"`
	ContactPhone          string                     `gorm:"type:text" json:"contact_phone"`
	WebsiteURL            string                     `gorm:"type:text" json:"website_url"`
	IsActive              bool                       `gorm:"not null;default:true" json:"is_active"`
	IsAcceptingNewClients bool                       `gorm:"not null;default:true" json:"is_accepting_new_clients"`
	Visibility            string                     `gorm:"type:text;not null;default:PUBLIC" json:"visibility"`
	Slug                  string                     `gorm:"type:text;uniqueIndex:ux_therapists_slug" json:"slug"`
	MetaDescription       string                     `gorm:"type:text" json:"meta_description"`
	CreatedAt             time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	PublishedAt           *time.Time                 `json:"published_at,omitempty"`
}

// TableName sets the database table name.
func (Therapist) TableName() string { return "therapists" }

// Specialization is a catalog entry describing an area of practice.
// The catalog is seeded by migration; profiles link to it.
type Specialization struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NameEng        string    `gorm:"type:text;not null;uniqueIndex:ux_specializations_name_eng" json:"name_eng"`
	NamePl         string    `gorm:"type:text;not null;uniqueIndex:ux_specializations_name_pl" json:"name_pl"`
	DescriptionEng string    `gorm:"type:text" json:"description_eng"`
	DescriptionPl  string    `gorm:"type:text" json:"description_pl"`
	Category       string    `gorm:"type:text" json:"category"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Specialization) TableName() string { return "specializations" }

// TherapistSpecialization links a profile to a catalog entry. Composite
// key, at most one link per (therapist, specialization) pair.
type TherapistSpecialization struct {
	TherapistID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"therapist_id"`
	SpecializationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"specialization_id"`
	IsPrimary        bool      `gorm:"not null;default:false" json:"is_primary"`
	YearsOfPractice  int       `gorm:"default:0" json:"years_of_practice"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TherapistSpecialization) TableName() string { return "therapist_specializations" }

// TherapistEducation is one education record on a profile.
type TherapistEducation struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TherapistID    uuid.UUID `gorm:"type:uuid;not null;index" json:"therapist_id"`
	Degree         string    `gorm:"type:text;not null" json:"degree"`
	FieldOfStudy   string    `gorm:"type:text" json:"field_of_study"`
	Institution    string    `gorm:"type:text;not null" json:"institution"`
	Country        string    `gorm:"type:text" json:"country"`
	StartYear      int       `gorm:"default:0" json:"start_year,omitempty"`
	GraduationYear int       `gorm:"default:0" json:"graduation_year,omitempty"`
	IsCompleted    bool      `gorm:"not null;default:true" json:"is_completed"`
	ThesisTitle    string    `gorm:"type:text" json:"thesis_title,omitempty"`
	Honors         string    `gorm:"type:text" json:"honors,omitempty"`
	DisplayOrder   int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TherapistEducation) TableName() string { return "therapist_education" }

// TherapistCertification is one certification record on a profile.
type TherapistCertification struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TherapistID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"therapist_id"`
	Name                string     `gorm:"type:text;not null" json:"name"`
	IssuingOrganization string     `gorm:"type:text;not null" json:"issuing_organization"`
	CredentialID        string     `gorm:"type:text" json:"credential_id,omitempty"`
	IssueDate           *time.Time `json:"issue_date,omitempty"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty"`
	IsActive            bool       `gorm:"not null;default:true" json:"is_active"`
	VerificationURL     string     `gorm:"type:text" json:"verification_url,omitempty"`
	CertificationLevel  string     `gorm:"type:text" json:"certification_level,omitempty"`
	HoursCompleted      int        `gorm:"default:0" json:"hours_completed,omitempty"`
	DisplayOrder        int        `gorm:"not null;default:0" json:"display_order"`
	CreatedAt           time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TherapistCertification) TableName() string { return "therapist_certifications" }
