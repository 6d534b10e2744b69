package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orgdomain "github.com/inspirationparticle/utro/internal/organisation/domain"
)

func (s *Server) registerOrganisationRoutes() {
	group := s.engine.Group("/v1/organisations", s.AuthRequired())
	group.POST("", s.handleCreateOrganisation)
	group.GET("", s.handleListMyOrganisations)
	group.GET("/search", s.handleSearchOrganisations)
	group.GET("/:id", s.handleGetOrganisation)
	group.GET("/:id/members", s.handleListMembers)
	group.DELETE("/:id/members/:userId", s.handleRemoveMember)
	group.POST("/:id/invitations", s.handleCreateInvitation)
	group.GET("/:id/invitations", s.handleListInvitations)

	invites := s.engine.Group("/v1/invitations", s.AuthRequired())
	invites.POST("/:id/accept", s.handleAcceptInvitation)
	invites.POST("/:id/decline", s.handleDeclineInvitation)
	invites.POST("/:id/cancel", s.handleCancelInvitation)
}

type createOrganisationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) handleCreateOrganisation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org, err := s.organisationSvc.Create(c.Request.Context(), user.ID, orgdomain.CreateOrganisationRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, org)
}

func (s *Server) handleListMyOrganisations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	items, err := s.organisationSvc.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organisations": items})
}

func (s *Server) handleSearchOrganisations(c *gin.Context) {
	orgs, err := s.organisationSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organisations": orgs})
}

func (s *Server) handleGetOrganisation(c *gin.Context) {
	raw := c.Param("id")
	if id, err := uuid.Parse(raw); err == nil {
		org, err := s.organisationSvc.GetByID(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, org)
		return
	}

	// Non-UUID identifiers are treated as slugs.
	org, err := s.organisationSvc.GetBySlug(c.Request.Context(), raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (s *Server) handleListMembers(c *gin.Context) {
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

	members, err := s.membershipSvc.ListMembers(c.Request.Context(), user.ID, orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (s *Server) handleRemoveMember(c *gin.Context) {
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
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.membershipSvc.RemoveMember(c.Request.Context(), user.ID, targetID, orgID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
