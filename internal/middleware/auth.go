package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/models"
	"github.com/mx-space/sitecms/internal/pkg/jwt"
	"github.com/mx-space/sitecms/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// Auth returns a middleware that requires a valid bearer token and stores
// the caller's identity in the context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			response.Unauthorized(c, "No token provided")
			return
		}
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "Invalid token format")
			return
		}
		claims, err := parser.Parse(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.Forbidden(c, "Admin access required")
			return
		}
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// CurrentRole extracts the authenticated role from context.
func CurrentRole(c *gin.Context) models.Role {
	return models.Role(c.GetString(ContextKeyRole))
}

func IsAdmin(c *gin.Context) bool {
	return CurrentRole(c) == models.RoleAdmin
}

// CanModify reports whether the caller is an admin or any of ownerIDs.
func CanModify(c *gin.Context, ownerIDs ...string) bool {
	if IsAdmin(c) {
		return true
	}
	uid := CurrentUserID(c)
	if uid == "" {
		return false
	}
	for _, id := range ownerIDs {
		if id == uid {
			return true
		}
	}
	return false
}

func extractToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return NormalizeToken(header)
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
