package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	offerdomain "github.com/inspirationparticle/utro/internal/offer/domain"
)

func (s *Server) registerOfferRoutes() {
	org := s.engine.Group("/v1/organisations/:id/offers")
	org.POST("", s.AuthRequired(), s.handleCreateOffer)
	org.GET("", s.handleListOffers)

	group := s.engine.Group("/v1/offers")
	group.GET("/search", s.handleSearchOffers)
	group.GET("/:id", s.handleGetOffer)
	group.GET("/:id/image", s.handleGetOfferImage)
	group.PATCH("/:id", s.AuthRequired(), s.handleUpdateOffer)
	group.DELETE("/:id", s.AuthRequired(), s.handleDeleteOffer)
}

type createOfferRequest struct {
	NameEng              string `json:"name_eng" binding:"required"`
	NamePl               string `json:"name_pl"`
	DescriptionEng       string `json:"description_eng"`
	DescriptionPl        string `json:"description_pl"`
	ProfileImage         []byte `json:"profile_image"`
	ProfileImageMimeType string `json:"profile_image_mime_type"`
}

func (s *Server) handleCreateOffer(c *gin.Context) {
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

	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	offer, err := s.offerSvc.Create(c.Request.Context(), user.ID, offerdomain.CreateOfferRequest{
		OrganisationID:       orgID,
		NameEng:              req.NameEng,
		NamePl:               req.NamePl,
		DescriptionEng:       req.DescriptionEng,
		DescriptionPl:        req.DescriptionPl,
		ProfileImage:         req.ProfileImage,
		ProfileImageMimeType: req.ProfileImageMimeType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offer)
}

func (s *Server) handleListOffers(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	offers, err := s.offerSvc.ListByOrganisation(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (s *Server) handleSearchOffers(c *gin.Context) {
	var orgID *uuid.UUID
	if raw := c.Query("organisation_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		orgID = &id
	}

	offers, err := s.offerSvc.Search(c.Request.Context(), orgID, c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (s *Server) handleGetOffer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	offer, err := s.offerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (s *Server) handleGetOfferImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	image, err := s.offerSvc.GetImage(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, image.MimeType, image.Data)
}

type updateOfferRequest struct {
	NameEng              *string `json:"name_eng"`
	NamePl               *string `json:"name_pl"`
	DescriptionEng       *string `json:"description_eng"`
	DescriptionPl        *string `json:"description_pl"`
	ProfileImage         []byte  `json:"profile_image"`
	ProfileImageMimeType *string `json:"profile_image_mime_type"`
}

func (s *Server) handleUpdateOffer(c *gin.Context) {
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

	var req updateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	offer, err := s.offerSvc.Update(c.Request.Context(), user.ID, id, offerdomain.UpdateOfferRequest{
		NameEng:              req.NameEng,
		NamePl:               req.NamePl,
		DescriptionEng:       req.DescriptionEng,
		DescriptionPl:        req.DescriptionPl,
		ProfileImage:         req.ProfileImage,
		ProfileImageMimeType: req.ProfileImageMimeType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (s *Server) handleDeleteOffer(c *gin.Context) {
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

	if err := s.offerSvc.Delete(c.Request.Context(), user.ID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
