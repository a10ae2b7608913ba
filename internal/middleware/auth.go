package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"daylog/internal/session"
)

// BearerToken extracts the bearer token from the request's Authorization
// header. The second return value is false when the header is missing or
// malformed.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireSession verifies the bearer token against the session store and
// aborts with 401 when it is missing, malformed, revoked, or expired.
func RequireSession(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		if !sessions.Validate(token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
