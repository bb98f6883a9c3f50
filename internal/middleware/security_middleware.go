package middleware

import (
	"strings"

	"restopos/internal/apierr"
	"restopos/internal/auth"
	"restopos/internal/database"
	"restopos/internal/models"

	"github.com/gin-gonic/gin"
)

func abortWith(c *gin.Context, e *apierr.Error) {
	c.AbortWithStatusJSON(e.Status, gin.H{
		"ok":      false,
		"error":   e.Code,
		"message": e.Message,
		"details": e.Details,
	})
}

// AuthMiddleware validates the bearer token and rechecks the user row, so a
// deactivated user is locked out even with a token that has not expired yet.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apierr.Unauthorized("Authorization header is required"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortWith(c, apierr.Unauthorized("Authorization header must start with Bearer"))
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			abortWith(c, apierr.Unauthorized("Invalid or expired token"))
			return
		}

		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil || !user.IsActive {
			abortWith(c, apierr.Unauthorized("User inactive"))
			return
		}

		c.Set("userID", user.ID)
		c.Set("userName", user.Name)
		c.Set("role", user.Role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			abortWith(c, apierr.Forbidden("Insufficient role"))
			return
		}
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}
		abortWith(c, apierr.Forbidden("Insufficient role"))
	}
}
