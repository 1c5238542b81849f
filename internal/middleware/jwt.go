package middleware

import (
	"membership_system/internal/domain" // Importing domain models
	"membership_system/internal/utils"  // JWT utility functions
	"net/http"                          // HTTP status codes
	"strings"                           // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ContextAdmin is the context key under which the access guard stores the
// resolved acting admin (domain.User) for downstream handlers
const ContextAdmin = "admin"

// JWTAuthMiddleware validates the bearer token and resolves the acting admin.
// It checks signature/expiry and that the user still exists; it deliberately
// does NOT compare against the token stored on the user record, so a
// superseded token keeps passing the guard until it expires (only Logout
// enforces the stored-token match).
func JWTAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "No token provided"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// Signature or expiry failure, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		var user domain.User // Resolve the token subject to an existing user
		if err := db.First(&user, claims.UserID).Error; err != nil {
			// Token is valid but the subject no longer exists, abort unauthorized
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user"})
			return
		}
		c.Set(ContextAdmin, user) // Store the acting admin in context
		c.Next()                  // Proceed to the next handler
	}
}
