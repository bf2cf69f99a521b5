package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentmarket/internal/domain"
	"rentmarket/internal/pkg/response"
)

// RequireRole lets the request through when the token's role is one of roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if !allowed[role] {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OwnerOnly admits owners and admins.
func OwnerOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleOwner, domain.RoleAdmin)
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
