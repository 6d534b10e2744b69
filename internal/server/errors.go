package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/inspirationparticle/utro/internal/auth/domain"
	"github.com/inspirationparticle/utro/internal/authorization"
	offerdomain "github.com/inspirationparticle/utro/internal/offer/domain"
	orgdomain "github.com/inspirationparticle/utro/internal/organisation/domain"
	therapistdomain "github.com/inspirationparticle/utro/internal/therapist/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}

	// A denial never reveals whether the caller has no membership or
	// merely the wrong role.
	case errors.Is(err, ErrForbidden),
		errors.Is(err, orgdomain.ErrForbidden),
		errors.Is(err, orgdomain.ErrCannotRemoveSelf),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}

	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, orgdomain.ErrOrganisationNotFound),
		errors.Is(err, orgdomain.ErrMembershipNotFound),
		errors.Is(err, orgdomain.ErrInvitationNotFound),
		errors.Is(err, orgdomain.ErrUserLookupNotFound),
		errors.Is(err, offerdomain.ErrOfferNotFound),
		errors.Is(err, offerdomain.ErrImageNotFound),
		errors.Is(err, therapistdomain.ErrTherapistNotFound),
		errors.Is(err, therapistdomain.ErrImageNotFound),
		errors.Is(err, therapistdomain.ErrSpecializationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}

	case errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, orgdomain.ErrOrganisationExists),
		errors.Is(err, orgdomain.ErrAlreadyMember),
		errors.Is(err, orgdomain.ErrActiveInvitationExists),
		errors.Is(err, offerdomain.ErrOfferExists),
		errors.Is(err, therapistdomain.ErrTherapistExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, orgdomain.ErrInvalidName),
		errors.Is(err, orgdomain.ErrInvalidEmail),
		errors.Is(err, orgdomain.ErrInvalidRole),
		errors.Is(err, orgdomain.ErrInvitationNotPending),
		errors.Is(err, orgdomain.ErrInvitationExpired),
		errors.Is(err, offerdomain.ErrInvalidOffer),
		errors.Is(err, therapistdomain.ErrInvalidTherapist),
		errors.Is(err, therapistdomain.ErrInvalidPageToken),
		errors.Is(err, therapistdomain.ErrInvalidQualification),
		errors.Is(err, authorization.ErrInvalidActor),
		errors.Is(err, authorization.ErrInvalidOrganization),
		errors.Is(err, authorization.ErrInvalidObject),
		errors.Is(err, authorization.ErrInvalidAction):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}

	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", payload.Type
	case status >= http.StatusBadRequest:
		return "client_error", payload.Type
	default:
		return "", payload.Type
	}
}
