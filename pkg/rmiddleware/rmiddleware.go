package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rohandevadiga3333/wiz/internal/middleware"
)

// RoleMiddleware rejects requests whose token role is not one of the required
// roles. This is a coarse gate: handlers still verify resource-level
// authority (e.g. leadership of the specific team) against the database.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := middleware.GetClaimsFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		for _, requiredRole := range requiredRoles {
			if strings.EqualFold(claims.Role, requiredRole) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this resource"})
	}
}

// LeaderMiddleware is a convenience middleware for leader-only access
func LeaderMiddleware() gin.HandlerFunc {
	return RoleMiddleware("leader")
}
