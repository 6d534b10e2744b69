package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/inspirationparticle/utro/internal/authorization"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/therapist/domain"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"github.com/inspirationparticle/utro/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	specs domain.SpecializationRepository
	authz authorization.Service
	genID *uuidv7.Generator
	clock clock.Clock
}

func NewService(
	log *zap.Logger,
	repo domain.Repository,
	specs domain.SpecializationRepository,
	authz authorization.Service,
	genID *uuidv7.Generator,
	clk clock.Clock,
) domain.Service {
	return &service{
		log:   log.Named("therapist.service"),
		repo:  repo,
		specs: specs,
		authz: authz,
		genID: genID,
		clock: clk,
	}
}

func actor(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

func (s *service) Create(ctx context.Context, actingUserID uuid.UUID, req domain.CreateTherapistRequest) (*domain.Therapist, error) {
	if err := s.authz.Authorize(ctx, actor(actingUserID), req.OrganisationID.String(), authorization.ObjectTherapist, authorization.ActionCreate); err != nil {
		return nil, err
	}

	if req.UserID == uuid.Nil {
		return nil, domain.ErrInvalidTherapist
	}

	if _, err := s.repo.FindByUserID(ctx, req.UserID); err == nil {
		return nil, domain.ErrTherapistExists
	} else if !errors.Is(err, domain.ErrTherapistNotFound) {
		return nil, err
	}

	slugName := strings.TrimSpace(req.Slug)
	if slugName == "" {
		slugName = slug.Make(req.ProfessionalTitle)
	} else {
		slugName = slug.Make(slugName)
	}

	now := s.clock.Now()
	therapist := &domain.Therapist{
		ID:                    s.genID.Generate(),
		UserID:                req.UserID,
		OrganisationID:        req.OrganisationID,
		ProfessionalTitle:     strings.TrimSpace(req.ProfessionalTitle),
		DescriptionEng:        req.DescriptionEng,
		DescriptionPl:         req.DescriptionPl,
		Languages:             datatypes.NewJSONSlice(req.Languages),
		SearchTags:            datatypes.NewJSONSlice([]string{}),
		ContactEmail:          strings.TrimSpace(req.ContactEmail),
		IsActive:              true,
		IsAcceptingNewClients: true,
		Visibility:            domain.VisibilityPublic,
		Slug:                  slugName,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.repo.Create(ctx, therapist); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrTherapistExists
		}
		return nil, err
	}

	s.log.Info("therapist created",
		zap.String("therapist_id", therapist.ID.String()),
		zap.String("organisation_id", therapist.OrganisationID.String()),
	)
	return therapist, nil
}

// Update is allowed for organisation administrators and for the
// therapist editing their own profile.
func (s *service) Update(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, req domain.UpdateTherapistRequest) (*domain.Therapist, error) {
	therapist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guardProfileEdit(ctx, actingUserID, therapist); err != nil {
		return nil, err
	}

	applyUpdate(therapist, req)
	therapist.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, therapist); err != nil {
		return nil, err
	}
	return therapist, nil
}

func (s *service) Delete(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) error {
	therapist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(ctx, actor(actingUserID), therapist.OrganisationID.String(), authorization.ObjectTherapist, authorization.ActionDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("therapist deleted",
		zap.String("therapist_id", id.String()),
		zap.String("organisation_id", therapist.OrganisationID.String()),
	)
	return nil
}

func (s *service) Publish(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) (*domain.Therapist, error) {
	return s.setPublished(ctx, actingUserID, id, true)
}

func (s *service) Unpublish(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) (*domain.Therapist, error) {
	return s.setPublished(ctx, actingUserID, id, false)
}

func (s *service) setPublished(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, published bool) (*domain.Therapist, error) {
	therapist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	action := authorization.ActionPublish
	if !published {
		action = authorization.ActionUnpublish
	}
	if err := s.authz.Authorize(ctx, actor(actingUserID), therapist.OrganisationID.String(), authorization.ObjectTherapist, action); err != nil {
		return nil, err
	}

	if published {
		now := s.clock.Now()
		therapist.PublishedAt = &now
	} else {
		therapist.PublishedAt = nil
	}
	therapist.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, therapist); err != nil {
		return nil, err
	}
	return therapist, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Therapist, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slugName string) (*domain.Therapist, error) {
	return s.repo.FindBySlug(ctx, slugName)
}

func (s *service) GetImage(ctx context.Context, id uuid.UUID) (*domain.TherapistImage, error) {
	therapist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(therapist.ProfileImage) == 0 {
		return nil, domain.ErrImageNotFound
	}
	return &domain.TherapistImage{
		Data:     therapist.ProfileImage,
		MimeType: therapist.ProfileImageMimeType,
	}, nil
}

func (s *service) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]domain.Therapist, error) {
	return s.repo.ListByOrganisation(ctx, organisationID)
}

func (s *service) Search(ctx context.Context, query string, page pagination.Pagination) (*domain.SearchResult, error) {
	var cursor *pagination.Cursor
	if page.PageToken != "" {
		decoded, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		cursor = decoded
	}

	limit := page.Limit()
	therapists, err := s.repo.Search(ctx, query, limit+1, cursor)
	if err != nil {
		return nil, err
	}

	info := &pagination.PageInfo{}
	if len(therapists) > limit {
		therapists = therapists[:limit]
		last := therapists[len(therapists)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        last.ID.String(),
			CreatedAt: last.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		info.HasMore = true
		info.NextPageToken = token
	}

	return &domain.SearchResult{Therapists: therapists, PageInfo: info}, nil
}

// guardProfileEdit allows the profile owner and organisation
// administrators through; everyone else is denied.
func (s *service) guardProfileEdit(ctx context.Context, actingUserID uuid.UUID, therapist *domain.Therapist) error {
	if therapist.UserID == actingUserID {
		return nil
	}
	return s.authz.Authorize(ctx, actor(actingUserID), therapist.OrganisationID.String(), authorization.ObjectTherapist, authorization.ActionUpdate)
}

// SetSpecializations replaces the profile's catalog links. Every link
// must reference an existing catalog entry.
func (s *service) SetSpecializations(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, links []domain.SpecializationLink) ([]domain.TherapistSpecialization, error) {
	therapist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardProfileEdit(ctx, actingUserID, therapist); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rows := make([]domain.TherapistSpecialization, 0, len(links))
	seen := make(map[uuid.UUID]bool, len(links))
	for _, link := range links {
		if seen[link.SpecializationID] {
			continue
		}
		seen[link.SpecializationID] = true
		if _, err := s.specs.FindByID(ctx, link.SpecializationID); err != nil {
			return nil, err
		}
		rows = append(rows, domain.TherapistSpecialization{
			TherapistID:      id,
			SpecializationID: link.SpecializationID,
			IsPrimary:        link.IsPrimary,
			YearsOfPractice:  link.YearsOfPractice,
			CreatedAt:        now,
		})
	}

	if err := s.repo.ReplaceSpecializations(ctx, id, rows); err != nil {
		return nil, err
	}
	return s.repo.ListSpecializations(ctx, id)
}

func (s *service) ListSpecializations(ctx context.Context, id uuid.UUID) ([]domain.TherapistSpecialization, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListSpecializations(ctx, id)
}

// SetEducation replaces the profile's education history in the order
// given.
func (s *service) SetEducation(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, entries []domain.EducationInput) ([]domain.TherapistEducation, error) {
	therapist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardProfileEdit(ctx, actingUserID, therapist); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rows := make([]domain.TherapistEducation, 0, len(entries))
	for i, entry := range entries {
		degree := strings.TrimSpace(entry.Degree)
		institution := strings.TrimSpace(entry.Institution)
		if degree == "" || institution == "" {
			return nil, domain.ErrInvalidQualification
		}
		completed := true
		if entry.IsCompleted != nil {
			completed = *entry.IsCompleted
		}
		rows = append(rows, domain.TherapistEducation{
			ID:             s.genID.Generate(),
			TherapistID:    id,
			Degree:         degree,
			FieldOfStudy:   strings.TrimSpace(entry.FieldOfStudy),
			Institution:    institution,
			Country:        strings.TrimSpace(entry.Country),
			StartYear:      entry.StartYear,
			GraduationYear: entry.GraduationYear,
			IsCompleted:    completed,
			ThesisTitle:    entry.ThesisTitle,
			Honors:         entry.Honors,
			DisplayOrder:   i,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if err := s.repo.ReplaceEducation(ctx, id, rows); err != nil {
		return nil, err
	}
	return s.repo.ListEducation(ctx, id)
}

func (s *service) ListEducation(ctx context.Context, id uuid.UUID) ([]domain.TherapistEducation, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListEducation(ctx, id)
}

// SetCertifications replaces the profile's certifications in the order
// given.
func (s *service) SetCertifications(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID, entries []domain.CertificationInput) ([]domain.TherapistCertification, error) {
	therapist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardProfileEdit(ctx, actingUserID, therapist); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rows := make([]domain.TherapistCertification, 0, len(entries))
	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		issuer := strings.TrimSpace(entry.IssuingOrganization)
		if name == "" || issuer == "" {
			return nil, domain.ErrInvalidQualification
		}
		active := true
		if entry.IsActive != nil {
			active = *entry.IsActive
		}
		rows = append(rows, domain.TherapistCertification{
			ID:                  s.genID.Generate(),
			TherapistID:         id,
			Name:                name,
			IssuingOrganization: issuer,
			CredentialID:        strings.TrimSpace(entry.CredentialID),
			IssueDate:           entry.IssueDate,
			ExpiryDate:          entry.ExpiryDate,
			IsActive:            active,
			VerificationURL:     strings.TrimSpace(entry.VerificationURL),
			CertificationLevel:  strings.TrimSpace(entry.CertificationLevel),
			HoursCompleted:      entry.HoursCompleted,
			DisplayOrder:        i,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}

	if err := s.repo.ReplaceCertifications(ctx, id, rows); err != nil {
		return nil, err
	}
	return s.repo.ListCertifications(ctx, id)
}

func (s *service) ListCertifications(ctx context.Context, id uuid.UUID) ([]domain.TherapistCertification, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListCertifications(ctx, id)
}

func applyUpdate(therapist *domain.Therapist, req domain.UpdateTherapistRequest) {
	if req.ProfessionalTitle != nil {
		therapist.ProfessionalTitle = strings.TrimSpace(*req.ProfessionalTitle)
	}
	if req.DescriptionEng != nil {
		therapist.DescriptionEng = *req.DescriptionEng
	}
	if req.DescriptionPl != nil {
		therapist.DescriptionPl = *req.DescriptionPl
	}
	if req.WorkExperienceEng != nil {
		therapist.WorkExperienceEng = *req.WorkExperienceEng
	}
	if req.WorkExperiencePl != nil {
		therapist.WorkExperiencePl = *req.WorkExperiencePl
	}
	if req.Languages != nil {
		therapist.Languages = datatypes.NewJSONSlice(req.Languages)
	}
	if req.SearchTags != nil {
		therapist.SearchTags = datatypes.NewJSONSlice(req.SearchTags)
	}
	if req.InPersonTherapyFormat != nil {
		therapist.InPersonTherapyFormat = *req.InPersonTherapyFormat
	}
	if req.OnlineTherapyFormat != nil {
		therapist.OnlineTherapyFormat = *req.OnlineTherapyFormat
	}
	if req.ProfileImage != nil {
		therapist.ProfileImage = req.ProfileImage
	}
	if req.ProfileImageMimeType != nil {
		therapist.ProfileImageMimeType = *req.ProfileImageMimeType
	}
	if req.ContactEmail != nil {
		therapist.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		therapist.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.WebsiteURL != nil {
		therapist.WebsiteURL = strings.TrimSpace(*req.WebsiteURL)
	}
	if req.IsActive != nil {
		therapist.IsActive = *req.IsActive
	}
	if req.IsAcceptingNewClients != nil {
		therapist.IsAcceptingNewClients = *req.IsAcceptingNewClients
	}
	if req.Visibility != nil {
		therapist.Visibility = *req.Visibility
	}
	if req.MetaDescription != nil {
		therapist.MetaDescription = *req.MetaDescription
	}
}
