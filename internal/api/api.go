// Package api contains the gin handlers and router for the membership and
// payment tracking REST API.
package api

import (
	"membership_system/internal/domain"     // Importing domain models
	"membership_system/internal/middleware" // Context keys
	"strconv"                               // Cache key formatting
	"time"                                  // Cache TTL

	"github.com/gin-gonic/gin" // Gin web framework
)

// listCacheTTL is how long cached list responses stay fresh
const listCacheTTL = 60 * time.Second

// AdminSummary is the populated owner shape returned on list responses
type AdminSummary struct {
	Username string `json:"username"` // Owner display name
	Email    string `json:"email"`    // Owner login email
}

// adminSummary maps a user to its populated summary
func adminSummary(u domain.User) AdminSummary {
	return AdminSummary{Username: u.Username, Email: u.Email}
}

// actingAdmin returns the admin resolved by the access guard
func actingAdmin(c *gin.Context) domain.User {
	return c.MustGet(middleware.ContextAdmin).(domain.User)
}

// Cache keys for the scoped list responses
func categoriesCacheKey(adminID uint) string {
	return "categories:admin:" + strconv.Itoa(int(adminID))
}

func membersCacheKey(adminID uint) string {
	return "members:admin:" + strconv.Itoa(int(adminID))
}

func membersByCategoryCacheKey(categoryID uint) string {
	return "members:category:" + strconv.Itoa(int(categoryID))
}

func reportsCacheKey(adminID uint) string {
	return "reports:admin:" + strconv.Itoa(int(adminID))
}

// parseID parses a numeric path parameter; ok=false when it is not a
// positive integer
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
