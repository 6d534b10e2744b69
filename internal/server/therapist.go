package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	therapistdomain "github.com/inspirationparticle/utro/internal/therapist/domain"
	"github.com/inspirationparticle/utro/pkg/db/pagination"
)

func (s *Server) registerTherapistRoutes() {
	org := s.engine.Group("/v1/organisations/:id/therapists")
	org.POST("", s.AuthRequired(), s.handleCreateTherapist)
	org.GET("", s.handleListTherapists)

	group := s.engine.Group("/v1/therapists")
	group.GET("/search", s.handleSearchTherapists)
	group.GET("/:id", s.handleGetTherapist)
	group.GET("/:id/image", s.handleGetTherapistImage)
	group.PATCH("/:id", s.AuthRequired(), s.handleUpdateTherapist)
	group.DELETE("/:id", s.AuthRequired(), s.handleDeleteTherapist)
	group.POST("/:id/publish", s.AuthRequired(), s.handlePublishTherapist)
	group.POST("/:id/unpublish", s.AuthRequired(), s.handleUnpublishTherapist)

	group.GET("/:id/specializations", s.handleListTherapistSpecializations)
	group.PUT("/:id/specializations", s.AuthRequired(), s.handleSetTherapistSpecializations)
	group.GET("/:id/education", s.handleListTherapistEducation)
	group.PUT("/:id/education", s.AuthRequired(), s.handleSetTherapistEducation)
	group.GET("/:id/certifications", s.handleListTherapistCertifications)
	group.PUT("/:id/certifications", s.AuthRequired(), s.handleSetTherapistCertifications)
}

type createTherapistRequest struct {
	UserID            string   `json:"user_id" binding:"required"`
	ProfessionalTitle string   `json:"professional_title"`
	DescriptionEng    string   `json:"description_eng"`
	DescriptionPl     string   `json:"description_pl"`
	Languages         []string `json:"languages"`
	ContactEmail      string   `json:"contact_email"`
	Slug              string   `json:"slug"`
}

func (s *Server) handleCreateTherapist(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var req createTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	subjectID, err := uuid.Parse(req.UserID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	therapist, err := s.therapistSvc.Create(c.Request.Context(), user.ID, therapistdomain.CreateTherapistRequest{
		OrganisationID:    orgID,
		UserID:            subjectID,
		ProfessionalTitle: req.ProfessionalTitle,
		DescriptionEng:    req.DescriptionEng,
		DescriptionPl:     req.DescriptionPl,
		Languages:         req.Languages,
		ContactEmail:      req.ContactEmail,
		Slug:              req.Slug,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, therapist)
}

func (s *Server) handleListTherapists(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	therapists, err := s.therapistSvc.ListByOrganisation(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"therapists": therapists})
}

func (s *Server) handleSearchTherapists(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.therapistSvc.Search(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"therapists": result.Therapists,
		"page_info":  result.PageInfo,
	})
}

func (s *Server) handleGetTherapist(c *gin.Context) {
	raw := c.Param("id")
	if id, err := uuid.Parse(raw); err == nil {
		therapist, err := s.therapistSvc.GetByID(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, therapist)
		return
	}

	therapist, err := s.therapistSvc.GetBySlug(c.Request.Context(), raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, therapist)
}

func (s *Server) handleGetTherapistImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	image, err := s.therapistSvc.GetImage(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, image.MimeType, image.Data)
}

type updateTherapistRequest struct {
	ProfessionalTitle     *string  `json:"professional_title"`
	DescriptionEng        *string  `json:"description_eng"`
	DescriptionPl         *string  `json:"description_pl"`
	WorkExperienceEng     *string  `json:"work_experience_eng"`
	WorkExperiencePl      *string  `json:"work_experience_pl"`
	Languages             []string `json:"languages"`
	SearchTags            []string `json:"search_tags"`
	InPersonTherapyFormat *bool    `json:"in_person_therapy_format"`
	OnlineTherapyFormat   *bool    `json:"online_therapy_format"`
	ProfileImage          []byte   `json:"profile_image"`
	ProfileImageMimeType  *string  `json:"profile_image_mime_type"`
	ContactEmail          *string  `json:"contact_email"`
	ContactPhone          *string  `json:"contact_phone"`
	WebsiteURL            *string  `json:"website_url"`
	IsActive              *bool    `json:"is_active"`
	IsAcceptingNewClients *bool    `json:"is_accepting_new_clients"`
	Visibility            *string  `json:"visibility"`
	MetaDescription       *string  `json:"meta_description"`
}

func (s *Server) handleUpdateTherapist(c *gin.Context) {
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

	var req updateTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	therapist, err := s.therapistSvc.Update(c.Request.Context(), user.ID, id, therapistdomain.UpdateTherapistRequest{
		ProfessionalTitle:     req.ProfessionalTitle,
		DescriptionEng:        req.DescriptionEng,
		DescriptionPl:         req.DescriptionPl,
		WorkExperienceEng:     req.WorkExperienceEng,
		WorkExperiencePl:      req.WorkExperiencePl,
		Languages:             req.Languages,
		SearchTags:            req.SearchTags,
		InPersonTherapyFormat: req.InPersonTherapyFormat,
		OnlineTherapyFormat:   req.OnlineTherapyFormat,
		ProfileImage:          req.ProfileImage,
		ProfileImageMimeType:  req.ProfileImageMimeType,
		ContactEmail:          req.ContactEmail,
		ContactPhone:          req.ContactPhone,
		WebsiteURL:            req.WebsiteURL,
		IsActive:              req.IsActive,
		IsAcceptingNewClients: req.IsAcceptingNewClients,
		Visibility:            req.Visibility,
		MetaDescription:       req.MetaDescription,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, therapist)
}

func (s *Server) handleDeleteTherapist(c *gin.Context) {
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

	if err := s.therapistSvc.Delete(c.Request.Context(), user.ID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handlePublishTherapist(c *gin.Context) {
	s.setTherapistPublished(c, s.therapistSvc.Publish)
}

func (s *Server) handleUnpublishTherapist(c *gin.Context) {
	s.setTherapistPublished(c, s.therapistSvc.Unpublish)
}

func (s *Server) setTherapistPublished(c *gin.Context, transition func(ctx context.Context, actingUserID uuid.UUID, id uuid.UUID) (*therapistdomain.Therapist, error)) {
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

	therapist, err := transition(c.Request.Context(), user.ID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, therapist)
}
