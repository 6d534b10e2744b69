package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/inspirationparticle/utro/internal/auth/domain"
)

const contextUserKey = "current_user"

// AuthRequired resolves the bearer token to a user account and stores
// it on the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) (*authdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	return user, ok
}
