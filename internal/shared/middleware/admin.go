package middleware

import (
	"github.com/gin-gonic/gin"

	"editorial-backend/internal/shared/response"
	"editorial-backend/pkg/jwt"
)

// AdminMiddleware checks the role set by AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		if r, _ := role.(string); r != jwt.RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
