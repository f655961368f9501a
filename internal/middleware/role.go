package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

// VendorOnly lets vendors and admins through.
func VendorOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleVendor, jwt.RoleAdmin)
}
