package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/response"
)

// Context keys set by the authentication middleware.
const (
	ContextUserKey  = "auth.user_id"
	ContextRoleKey  = "auth.role"
	ContextEmailKey = "auth.email"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT validates the bearer token and stores the caller identity on the context.
func JWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims.UserID)
		c.Set(ContextRoleKey, string(claims.Role))
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id from the request context.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}

// CurrentRole returns the authenticated user role from the request context.
func CurrentRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString(ContextRoleKey))
}
