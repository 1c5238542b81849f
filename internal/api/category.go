package api

import (
	"membership_system/internal/domain" // Importing domain models
	"membership_system/internal/utils"  // Cache helpers
	"net/http"                          // HTTP status codes
	"time"                              // Timestamp formatting

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for category create/update
type CategoryRequest struct {
	CategoryName string `json:"categoryName" binding:"required"` // Category name must be provided
	IsGroup      string `json:"isGroup" binding:"required"`      // Group flag must be provided ("true"/"false")
}

// CategoryResponse is a category with its owner populated
type CategoryResponse struct {
	ID           uint         `json:"id"`           // Category ID
	CategoryName string       `json:"categoryName"` // Category name
	IsGroup      string       `json:"isGroup"`      // Group flag
	Admin        AdminSummary `json:"admin"`        // Populated owner
	CreatedAt    string       `json:"createdAt"`    // Record creation time
}

// categoryResponse maps a category with a preloaded admin to its response shape
func categoryResponse(cat domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           cat.ID,                                    // Category ID
		CategoryName: cat.CategoryName,                          // Category name
		IsGroup:      cat.IsGroup,                               // Group flag
		Admin:        adminSummary(cat.Admin),                   // Populated owner
		CreatedAt:    cat.CreatedAt.UTC().Format(time.RFC3339),  // Creation time
	}
}

// CreateCategoryHandler creates a category owned by the acting admin
func CreateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c) // Acting admin from the access guard
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If any field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "all fields required"})
			return
		}
		// Persist the category owned by the acting admin
		cat := domain.Category{
			CategoryName: req.CategoryName, // Category name
			IsGroup:      req.IsGroup,      // Group flag
			AdminID:      admin.ID,         // Owner is always the caller
		}
		if err := db.Create(&cat).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log category creation
		logrus.WithFields(logrus.Fields{
			"admin_id":    admin.ID, // Owner ID
			"category_id": cat.ID,   // New category ID
		}).Info("Category created")
		// Invalidate the owner's cached category list
		_ = utils.DeleteCache(c.Request.Context(), rdb, categoriesCacheKey(admin.ID))
		// Return success response
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category created successfully", "status": http.StatusOK})
	}
}

// GetCategoriesHandler lists the acting admin's categories with the owner populated
func GetCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)                  // Acting admin from the access guard
		ctx := c.Request.Context()               // Request context for Redis
		cacheKey := categoriesCacheKey(admin.ID) // Cache key scoped to the owner
		var cached []CategoryResponse            // Cached list shape
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "categories": cached, "status": http.StatusOK, "cached": true})
			return
		}
		var categories []domain.Category // Slice to hold categories
		// Fetch the owner's categories with the admin preloaded for population
		if err := db.Preload("Admin").Where("admin_id = ?", admin.ID).Find(&categories).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Map categories to the populated response shape
		resp := make([]CategoryResponse, len(categories))
		for i, cat := range categories {
			resp[i] = categoryResponse(cat)
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, listCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "categories": resp, "status": http.StatusOK, "cached": false})
	}
}

// GetCategoryByIDHandler returns the category matching the id as a filtered
// list; an unknown id yields an empty list, not a not-found error
func GetCategoryByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("categoryId")) // Parse the path parameter
		if !ok {
			// Malformed id, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "categoryId is required"})
			return
		}
		var categories []domain.Category // Filtered list, regardless of owner
		if err := db.Preload("Admin").Where("id = ?", id).Find(&categories).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Map to the populated response shape; empty when the id does not match
		resp := make([]CategoryResponse, len(categories))
		for i, cat := range categories {
			resp[i] = categoryResponse(cat)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "categories": resp, "status": http.StatusOK})
	}
}

// UpdateCategoryHandler overwrites a category's name and group flag; only the
// owning admin may mutate it
func UpdateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)                  // Acting admin from the access guard
		id, ok := parseID(c.Param("categoryId")) // Parse the path parameter
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "categoryId is required"})
			return
		}
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If any field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "all fields required"})
			return
		}
		var cat domain.Category // Load the record to be mutated
		if err := db.First(&cat, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}
		// Ownership check: the caller must own the record
		if cat.AdminID != admin.ID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Category belongs to another admin"})
			return
		}
		cat.CategoryName = req.CategoryName // Overwrite the name
		cat.IsGroup = req.IsGroup           // Overwrite the group flag
		if err := db.Save(&cat).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log category update
		logrus.WithFields(logrus.Fields{
			"admin_id":    admin.ID, // Owner ID
			"category_id": cat.ID,   // Updated category ID
		}).Info("Category updated")
		// Invalidate the owner's cached category list
		_ = utils.DeleteCache(c.Request.Context(), rdb, categoriesCacheKey(cat.AdminID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category updated successfully", "status": http.StatusOK})
	}
}

// DeleteCategoryHandler deletes a category; only the owner may delete it, and
// the delete is blocked while members still reference the category
func DeleteCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)                  // Acting admin from the access guard
		id, ok := parseID(c.Param("categoryId")) // Parse the path parameter
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "categoryId is required"})
			return
		}
		var cat domain.Category // Load the record to be deleted
		if err := db.First(&cat, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}
		// Ownership check: the caller must own the record
		if cat.AdminID != admin.ID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Category belongs to another admin"})
			return
		}
		var dependents int64 // Members still referencing this category
		if err := db.Model(&domain.Member{}).Where("category_id = ?", cat.ID).Count(&dependents).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Block the delete while dependents exist instead of orphaning them
		if dependents > 0 {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Category has members and cannot be deleted"})
			return
		}
		if err := db.Delete(&cat).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log category deletion
		logrus.WithFields(logrus.Fields{
			"admin_id":    admin.ID, // Owner ID
			"category_id": cat.ID,   // Deleted category ID
		}).Info("Category deleted")
		// Invalidate the owner's cached category list and the per-category member list
		_ = utils.DeleteCache(c.Request.Context(), rdb, categoriesCacheKey(cat.AdminID), membersByCategoryCacheKey(cat.ID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully", "status": http.StatusOK})
	}
}
