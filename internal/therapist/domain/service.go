package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrTherapistNotFound      = errors.New("therapist_not_found")
	ErrTherapistExists        = errors.New("therapist_exists")
	ErrInvalidTherapist       = errors.New("invalid_therapist")
	ErrImageNotFound          = errors.New("therapist_image_not_found")
	ErrInvalidPageToken       = errors.New("invalid_page_token")
	ErrSpecializationNotFound = errors.New("specialization_not_found")
	ErrInvalidQualification   = errors.New("invalid_qualification")
)

type CreateTherapistRequest struct {
	OrganisationID    uuid.UUID
	UserID            uuid.UUID
	ProfessionalTitle string
	DescriptionEng    string
	DescriptionPl     string
	Languages         []string
	ContactEmail      string
	Slug              string
}

type UpdateTherapistRequest struct {
	ProfessionalTitle     *string
	DescriptionEng        *string
	DescriptionPl         *string
	WorkExperienceEng     *string
	WorkExperiencePl      *string
	Languages             []string
	SearchTags            []string
	InPersonTherapyFormat *bool
	OnlineTherapyFormat   *bool
	ProfileImage          []byte
	ProfileImageMimeType  *string
	ContactEmail          *string
	ContactPhone          *string
	WebsiteURL            *string
	IsActive              *bool
	IsAcceptingNewClients *bool
	Visibility            *string
	MetaDescription       *string
}

type TherapistImage struct {
	Data     []byte
	MimeType string
}

type SearchResult struct {
	Therapists []Therapist
	PageInfo   *pagination.PageInfo
}

// SpecializationLink selects a catalog entry for a profile.
type SpecializationLink struct {
	SpecializationID uuid.UUID
	IsPrimary        bool
	YearsOfPractice  int
}

type EducationInput struct {
	Degree         string
	FieldOfStudy   string
	Institution    string
	Country        string
	StartYear      int
	GraduationYear int
	IsCompleted    *bool
	ThesisTitle    string
	Honors         string
}

type CertificationInput struct {
	Name                string
	IssuingOrganization string
	CredentialID        string
	IssueDate           *time.Time
	ExpiryDate          *time.Time
	IsActive            *bool
	VerificationURL     string
	CertificationLevel  string
	HoursCompleted      int
}

type Service interface {
	Create(ctx context.Context, actingUserID uuid.UUID, req CreateTherapistRequest) (*Therapist, error)
	Update(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, req UpdateTherapistRequest) (*Therapist, error)
	Delete(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) error
	Publish(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) (*Therapist, error)
	Unpublish(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) (*Therapist, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Therapist, error)
	GetBySlug(ctx context.Context, slug string) (*Therapist, error)
	GetImage(ctx context.Context, id uuid.UUID) (*TherapistImage, error)
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]Therapist, error)
	Search(ctx context.Context, query string, page pagination.Pagination) (*SearchResult, error)

	SetSpecializations(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, links []SpecializationLink) ([]TherapistSpecialization, error)
	ListSpecializations(ctx context.Context, id uuid.UUID) ([]TherapistSpecialization, error)
	SetEducation(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, entries []EducationInput) ([]TherapistEducation, error)
	ListEducation(ctx context.Context, id uuid.UUID) ([]TherapistEducation, error)
	SetCertifications(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, entries []CertificationInput) ([]TherapistCertification, error)
	ListCertifications(ctx context.Context, id uuid.UUID) ([]TherapistCertification, error)
}

// SpecializationService exposes the read-only practice-area catalog.
type SpecializationService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Specialization, error)
	List(ctx context.Context, category string) ([]Specialization, error)
	Search(ctx context.Context, query string) ([]Specialization, error)
	Categories(ctx context.Context) ([]string, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, therapist *Therapist) error
	Save(ctx context.Context, therapist *Therapist) error
	FindByID(ctx context.Context, id uuid.UUID) (*Therapist, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Therapist, error)
	FindBySlug(ctx context.Context, slug string) (*Therapist, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]Therapist, error)
	Search(ctx context.Context, query string, limit int, cursor *pagination.Cursor) ([]Therapist, error)

	ReplaceSpecializations(ctx context.Context, therapistID uuid.UUID, links []TherapistSpecialization) error
	ListSpecializations(ctx context.Context, therapistID uuid.UUID) ([]TherapistSpecialization, error)
	ReplaceEducation(ctx context.Context, therapistID uuid.UUID, entries []TherapistEducation) error
	ListEducation(ctx context.Context, therapistID uuid.UUID) ([]TherapistEducation, error)
	ReplaceCertifications(ctx context.Context, therapistID uuid.UUID, entries []TherapistCertification) error
	ListCertifications(ctx context.Context, therapistID uuid.UUID) ([]TherapistCertification, error)
}

// SpecializationRepository reads the seeded catalog.
type SpecializationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Specialization, error)
	ListActive(ctx context.Context, category string) ([]Specialization, error)
	Search(ctx context.Context, query string) ([]Specialization, error)
	Categories(ctx context.Context) ([]string, error)
}
