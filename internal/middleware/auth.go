package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/credentials"
	apperrors "expensetracker/internal/errors"
)

// Context keys set by AuthMiddleware.
const (
	ContextUsername = "username"
	ContextRoles    = "roles"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	VerifyToken(token string) (*credentials.Claims, error)
}

// AuthMiddleware verifies the bearer token and stores the username and roles
// it carries in the context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			WriteError(c, apperrors.AuthenticationFailure("Authorization header is required"))
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			WriteError(c, apperrors.AuthenticationFailure("Invalid authorization header format"))
			return
		}

		claims, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			WriteError(c, err)
			return
		}

		c.Set(ContextUsername, claims.Subject)
		c.Set(ContextRoles, claims.Roles)
		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry role.
// It must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get(ContextRoles)
		values, _ := roles.([]string)
		for _, v := range values {
			if v == role {
				c.Next()
				return
			}
		}
		WriteError(c, apperrors.WithMessage(apperrors.ErrForbidden, "Access denied: requires role "+role))
	}
}
