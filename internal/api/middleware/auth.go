package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lodgekeep/inquiries/internal/auth"
	"lodgekeep/inquiries/internal/services"
)

const (
	// ContextKeyUserID holds the key for the actor's user ID in Gin context.
	ContextKeyUserID = "userID"
	// ContextKeyRole holds the key for the actor's role in Gin context.
	ContextKeyRole = "role"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. It places
// the actor's user ID and role claim into the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := auth.ValidateJWT(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": fmt.Sprintf("Invalid or expired token: %v", err)})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

// RequireAction creates a Gin middleware that checks the actor's role
// against the capability table for the given action. Assumes AuthMiddleware
// runs first.
func RequireAction(action services.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.Authorize(ActorRole(c), action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges"})
			return
		}
		c.Next()
	}
}

// ActorRole returns the authenticated actor's role from the Gin context.
func ActorRole(c *gin.Context) services.Role {
	role, exists := c.Get(ContextKeyRole)
	if !exists {
		return ""
	}
	s, _ := role.(string)
	return services.Role(s)
}
