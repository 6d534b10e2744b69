package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	therapistdomain "github.com/inspirationparticle/utro/internal/therapist/domain"
)

type educationEntryRequest struct {
	Degree         string `json:"degree" binding:"required"`
	FieldOfStudy   string `json:"field_of_study"`
	Institution    string `json:"institution" binding:"required"`
	Country        string `json:"country"`
	StartYear      int    `json:"start_year"`
	GraduationYear int    `json:"graduation_year"`
	IsCompleted    *bool  `json:"is_completed"`
	ThesisTitle    string `json:"thesis_title"`
	Honors         string `json:"honors"`
}

type setEducationRequest struct {
	Education []educationEntryRequest `json:"education"`
}

func (s *Server) handleSetTherapistEducation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var req setEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entries := make([]therapistdomain.EducationInput, 0, len(req.Education))
	for _, item := range req.Education {
		entries = append(entries, therapistdomain.EducationInput{
			Degree:         item.Degree,
			FieldOfStudy:   item.FieldOfStudy,
			Institution:    item.Institution,
			Country:        item.Country,
			StartYear:      item.StartYear,
			GraduationYear: item.GraduationYear,
			IsCompleted:    item.IsCompleted,
			ThesisTitle:    item.ThesisTitle,
			Honors:         item.Honors,
		})
	}

	saved, err := s.therapistSvc.SetEducation(c.Request.Context(), user.ID, id, entries)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"education": saved})
}

func (s *Server) handleListTherapistEducation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entries, err := s.therapistSvc.ListEducation(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"education": entries})
}

type certificationEntryRequest struct {
	Name                string     `json:"name" binding:"required"`
	IssuingOrganization string     `json:"issuing_organization" binding:"required"`
	CredentialID        string     `json:"credential_id"`
	IssueDate           *time.Time `json:"issue_date"`
	ExpiryDate          *time.Time `json:"expiry_date"`
	IsActive            *bool      `json:"is_active"`
	VerificationURL     string     `json:"verification_url"`
	CertificationLevel  string     `json:"certification_level"`
	HoursCompleted      int        `json:"hours_completed"`
}

type setCertificationsRequest struct {
	Certifications []certificationEntryRequest `json:"certifications"`
}

func (s *Server) handleSetTherapistCertifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var req setCertificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entries := make([]therapistdomain.CertificationInput, 0, len(req.Certifications))
	for _, item := range req.Certifications {
		entries = append(entries, therapistdomain.CertificationInput{
			Name:                item.Name,
			IssuingOrganization: item.IssuingOrganization,
			CredentialID:        item.CredentialID,
			IssueDate:           item.IssueDate,
			ExpiryDate:          item.ExpiryDate,
			IsActive:            item.IsActive,
			VerificationURL:     item.VerificationURL,
			CertificationLevel:  item.CertificationLevel,
			HoursCompleted:      item.HoursCompleted,
		})
	}

	saved, err := s.therapistSvc.SetCertifications(c.Request.Context(), user.ID, id, entries)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certifications": saved})
}

func (s *Server) handleListTherapistCertifications(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entries, err := s.therapistSvc.ListCertifications(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certifications": entries})
}
