package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
	ContextKeyUserID   = "userID"
)

// TokenAuthenticator verifies a bearer token and returns its principal
type TokenAuthenticator interface {
	RequireAuth(token string) (*auth.Principal, error)
}

// AuthMiddleware guards routes with bearer token authentication
type AuthMiddleware struct {
	authenticator TokenAuthenticator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
	}
}

// AbortUnauthorized rejects the request with the generic authentication error
func AbortUnauthorized(c *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, UnauthorizedMessage)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth middleware for JWT token validation. A missing header, a malformed
// header and a bad token all produce the same response.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			AbortUnauthorized(c)
			return
		}

		principal, err := m.authenticator.RequireAuth(tokenString)
		if err != nil {
			AbortUnauthorized(c)
			return
		}

		c.Set(ContextKeyUsername, principal.Subject)
		c.Set(ContextKeyRole, principal.Role)
		c.Set(ContextKeyUserID, principal.UserID())

		c.Next()
	}
}

// CurrentUsername returns the authenticated username stored by JWTAuth
func CurrentUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}
