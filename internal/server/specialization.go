package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	therapistdomain "github.com/inspirationparticle/utro/internal/therapist/domain"
)

func (s *Server) registerSpecializationRoutes() {
	group := s.engine.Group("/v1/specializations")
	group.GET("", s.handleListSpecializations)
	group.GET("/categories", s.handleListSpecializationCategories)
	group.GET("/:id", s.handleGetSpecialization)
}

func (s *Server) handleListSpecializations(c *gin.Context) {
	var (
		specializations []therapistdomain.Specialization
		err             error
	)
	if q := c.Query("q"); q != "" {
		specializations, err = s.specializationSvc.Search(c.Request.Context(), q)
	} else {
		specializations, err = s.specializationSvc.List(c.Request.Context(), c.Query("category"))
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"specializations": specializations})
}

func (s *Server) handleListSpecializationCategories(c *gin.Context) {
	categories, err := s.specializationSvc.Categories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) handleGetSpecialization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	specialization, err := s.specializationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, specialization)
}

type specializationLinkRequest struct {
	SpecializationID string `json:"specialization_id" binding:"required"`
	IsPrimary        bool   `json:"is_primary"`
	YearsOfPractice  int    `json:"years_of_practice"`
}

type setSpecializationsRequest struct {
	Specializations []specializationLinkRequest `json:"specializations"`
}

func (s *Server) handleSetTherapistSpecializations(c *gin.Context) {
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

	var req setSpecializationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	links := make([]therapistdomain.SpecializationLink, 0, len(req.Specializations))
	for _, item := range req.Specializations {
		specID, err := uuid.Parse(item.SpecializationID)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		links = append(links, therapistdomain.SpecializationLink{
			SpecializationID: specID,
			IsPrimary:        item.IsPrimary,
			YearsOfPractice:  item.YearsOfPractice,
		})
	}

	saved, err := s.therapistSvc.SetSpecializations(c.Request.Context(), user.ID, id, links)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"specializations": saved})
}

func (s *Server) handleListTherapistSpecializations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	links, err := s.therapistSvc.ListSpecializations(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"specializations": links})
}
