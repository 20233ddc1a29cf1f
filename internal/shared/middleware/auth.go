package middleware

import (
	"context"
	"strings"

	"catalog-backend/internal/shared/response"
	"catalog-backend/pkg/jwt"
	"catalog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	ContextClaims     = "claims"
	ContextEmployeeID = "employeeID"
	ContextProfile    = "profile"
)

// TokenValidator parses bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// ActiveChecker reports whether the employee behind a token may still act.
type ActiveChecker interface {
	IsActive(ctx context.Context, email string) (bool, error)
}

// AuthMiddleware requires a valid "Bearer <token>" header and stores the
// claims in the context. When active is non-nil the employee must still
// be active.
func AuthMiddleware(tokens TokenValidator, active ActiveChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Debug("rejected token: " + err.Error())
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if active != nil {
			ok, err := active.IsActive(c.Request.Context(), claims.Email())
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if !ok {
				response.Unauthorized(c, "Account is disabled")
				c.Abort()
				return
			}
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextEmployeeID, claims.EmployeeID)
		c.Set(ContextProfile, claims.Profile)

		c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthMiddleware.
func ClaimsFrom(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}
