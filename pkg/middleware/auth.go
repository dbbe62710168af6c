package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/response"
)

const (
	userIDKey    = "user_id"
	userRoleKey  = "user_role"
	userEmailKey = "user_email"
)

// TokenValidator verifies access tokens. *auth.JWTManager satisfies it.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid bearer token and stores the caller identity on the context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				response.Unauthorized(c, "token has expired")
				return
			}
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of roles.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient role")
	}
}

// GetUserID returns the authenticated caller's id.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserRole returns the authenticated caller's role.
func GetUserRole(c *gin.Context) (auth.Role, bool) {
	v, ok := c.Get(userRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(auth.Role)
	return role, ok
}

// GetUserEmail returns the authenticated caller's email.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}
