package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ngoconnect-backend/shared/database/models"
	utils "ngoconnect-backend/shared/utils/auth"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// Authenticate extracts and validates the access token and sets the
// caller's id and role in the gin context. First stage of the gate.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Expected Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateAccessJWT(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.ID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			c.Abort()
			return
		}

		role, err := models.ParseRole(claims.Role)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid role in token"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextUserRoleKey, role)

		c.Next()
	}
}

// RequireRoles checks the authenticated caller's role against the route's
// allow-list. Second stage of the gate; must run after Authenticate.
func RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	allowList := models.NewRoleSet(allowed...)

	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserRoleKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		role, ok := value.(models.Role)
		if !ok || !allowList.Contains(role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id from the context.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// CurrentUserRole returns the authenticated caller's role from the context.
func CurrentUserRole(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return "", false
	}
	role, ok := value.(models.Role)
	return role, ok
}
