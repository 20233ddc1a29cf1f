package middleware

import (
	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// AdminProfiles are the profiles allowed to use the admin API.
var AdminProfiles = []string{"SuperAdmin", "Admin", "CatalogManager"}

// AdminMiddleware checks the profile set by AuthMiddleware against allowed.
func AdminMiddleware(allowed ...string) gin.HandlerFunc {
	if len(allowed) == 0 {
		allowed = AdminProfiles
	}
	set := make(map[string]struct{}, len(allowed))
	for _, p := range allowed {
		set[p] = struct{}{}
	}

	return func(c *gin.Context) {
		profile := c.GetString(ContextProfile)
		if _, ok := set[profile]; !ok {
			response.Forbidden(c, "Access denied: admin profile required")
			c.Abort()
			return
		}
		c.Next()
	}
}
