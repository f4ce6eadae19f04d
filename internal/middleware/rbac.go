package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/response"
)

// RoleSelf grants access when the path parameter "id" matches the caller.
const RoleSelf = "SELF"

// RequireRoles allows the request through when the caller holds one of the
// listed roles, or matches the targeted resource when RoleSelf is listed.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	allowSelf := false
	for _, role := range roles {
		if role == RoleSelf {
			allowSelf = true
			continue
		}
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextRoleKey)
		if _, ok := allowed[role]; ok {
			c.Next()
			return
		}
		if allowSelf && c.Param("id") != "" && c.Param("id") == CurrentUserID(c) {
			c.Next()
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions"))
		c.Abort()
	}
}

// RequireAdmin is shorthand for admin-only routes.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(string(models.RoleAdmin))
}
