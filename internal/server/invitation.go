package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orgdomain "github.com/inspirationparticle/utro/internal/organisation/domain"
)

type createInvitationRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

func (s *Server) handleCreateInvitation(c *gin.Context) {
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

	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invitation, err := s.invitationSvc.Create(c.Request.Context(), user.ID, orgdomain.CreateInvitationRequest{
		OrganisationID: orgID,
		Email:          req.Email,
		Role:           req.Role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation)
}

func (s *Server) handleListInvitations(c *gin.Context) {
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

	invitations, err := s.invitationSvc.ListForOrganisation(c.Request.Context(), user.ID, orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

func (s *Server) handleAcceptInvitation(c *gin.Context) {
	s.respondToInvitation(c, s.invitationSvc.Accept)
}

func (s *Server) handleDeclineInvitation(c *gin.Context) {
	s.respondToInvitation(c, s.invitationSvc.Decline)
}

func (s *Server) respondToInvitation(c *gin.Context, transition func(ctx context.Context, requesterEmail string, invitationID uuid.UUID) (*orgdomain.Invitation, error)) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Accounts without an email can never match an invitation.
	if user.Email == nil {
		AbortWithError(c, orgdomain.ErrForbidden)
		return
	}

	invitation, err := transition(c.Request.Context(), *user.Email, invitationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitation)
}

func (s *Server) handleCancelInvitation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invitation, err := s.invitationSvc.Cancel(c.Request.Context(), user.ID, invitationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitation)
}
