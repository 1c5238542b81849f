package api

import (
	"membership_system/internal/domain" // Importing domain models
	"membership_system/internal/utils"  // Cache helpers
	"net/http"                          // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for member creation
type CreateMemberRequest struct {
	MemberName  string `json:"memberName" binding:"required"`  // Member name must be provided
	Zone        string `json:"zone" binding:"required"`        // Zone must be provided
	CategoryRef uint   `json:"categoryRef" binding:"required"` // Referenced category must be provided
}

// Request struct for member update; the category reference is immutable
// after creation, so only name and zone are accepted
type UpdateMemberRequest struct {
	MemberName string `json:"memberName" binding:"required"` // Member name must be provided
	Zone       string `json:"zone" binding:"required"`       // Zone must be provided
}

// MemberResponse is a member with its owner and category populated
type MemberResponse struct {
	ID           uint         `json:"id"`           // Member ID
	MemberName   string       `json:"memberName"`   // Member name
	Zone         string       `json:"zone"`         // Zone
	CategoryRef  uint         `json:"categoryRef"`  // Referenced category ID
	CategoryName string       `json:"categoryName"` // Populated category name
	Admin        AdminSummary `json:"admin"`        // Populated owner
}

// memberResponse maps a member with preloaded relations to its response shape
func memberResponse(m domain.Member) MemberResponse {
	return MemberResponse{
		ID:           m.ID,                         // Member ID
		MemberName:   m.MemberName,                 // Member name
		Zone:         m.Zone,                       // Zone
		CategoryRef:  m.CategoryID,                 // Referenced category ID
		CategoryName: m.Category.CategoryName,      // Populated category name
		Admin:        adminSummary(m.Admin),        // Populated owner
	}
}

// CreateMemberHandler creates a member owned by the acting admin; the
// referenced category must exist
func CreateMemberHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)     // Acting admin from the access guard
		var req CreateMemberRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If any field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
			return
		}
		var cat domain.Category // The referenced category must resolve
		if err := db.First(&cat, req.CategoryRef).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}
		// Persist the member owned by the acting admin
		member := domain.Member{
			MemberName: req.MemberName,  // Member name
			Zone:       req.Zone,        // Zone
			CategoryID: req.CategoryRef, // Verified category reference
			AdminID:    admin.ID,        // Owner is always the caller
		}
		if err := db.Create(&member).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log member creation
		logrus.WithFields(logrus.Fields{
			"admin_id":    admin.ID,  // Owner ID
			"member_id":   member.ID, // New member ID
			"category_id": cat.ID,    // Referenced category ID
		}).Info("Member created")
		// Invalidate the owner's member list and the per-category list
		_ = utils.DeleteCache(c.Request.Context(), rdb, membersCacheKey(admin.ID), membersByCategoryCacheKey(cat.ID))
		// Return the created record summary
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Member created successfully", "data": member})
	}
}

// GetMembersHandler lists the acting admin's members with the owner and
// category populated
func GetMembersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)               // Acting admin from the access guard
		ctx := c.Request.Context()            // Request context for Redis
		cacheKey := membersCacheKey(admin.ID) // Cache key scoped to the owner
		var cached []MemberResponse           // Cached list shape
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "members": cached, "cached": true})
			return
		}
		var members []domain.Member // Slice to hold members
		// Fetch the owner's members with relations preloaded for population
		if err := db.Preload("Admin").Preload("Category").Where("admin_id = ?", admin.ID).Find(&members).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Map members to the populated response shape
		resp := make([]MemberResponse, len(members))
		for i, m := range members {
			resp[i] = memberResponse(m)
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, listCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "members": resp, "cached": false})
	}
}

// UpdateMemberHandler overwrites a member's name and zone; only the owning
// admin may mutate it, and the category reference stays untouched
func UpdateMemberHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)                // Acting admin from the access guard
		id, ok := parseID(c.Param("memberId")) // Parse the path parameter
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "memberId is required"})
			return
		}
		var req UpdateMemberRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If any field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
			return
		}
		var member domain.Member // Load the record to be mutated
		if err := db.First(&member, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Member not found"})
			return
		}
		// Ownership check: the caller must own the record
		if member.AdminID != admin.ID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Member belongs to another admin"})
			return
		}
		member.MemberName = req.MemberName // Overwrite the name
		member.Zone = req.Zone             // Overwrite the zone
		if err := db.Save(&member).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log member update
		logrus.WithFields(logrus.Fields{
			"admin_id":  admin.ID,  // Owner ID
			"member_id": member.ID, // Updated member ID
		}).Info("Member updated")
		// Invalidate the owner's member list and the per-category list
		_ = utils.DeleteCache(c.Request.Context(), rdb, membersCacheKey(member.AdminID), membersByCategoryCacheKey(member.CategoryID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member updated successfully"})
	}
}

// DeleteMemberHandler deletes a member; only the owner may delete it, and the
// delete is blocked while payment reports still reference the member
func DeleteMemberHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)                // Acting admin from the access guard
		id, ok := parseID(c.Param("memberId")) // Parse the path parameter
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "memberId is required"})
			return
		}
		var member domain.Member // Load the record to be deleted
		if err := db.First(&member, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Member not found"})
			return
		}
		// Ownership check: the caller must own the record
		if member.AdminID != admin.ID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Member belongs to another admin"})
			return
		}
		var dependents int64 // Payment reports still referencing this member
		if err := db.Model(&domain.PaymentReport{}).Where("member_id = ?", member.ID).Count(&dependents).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Block the delete while dependents exist instead of orphaning them
		if dependents > 0 {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Member has payment reports and cannot be deleted"})
			return
		}
		if err := db.Delete(&member).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log member deletion
		logrus.WithFields(logrus.Fields{
			"admin_id":  admin.ID,  // Owner ID
			"member_id": member.ID, // Deleted member ID
		}).Info("Member deleted")
		// Invalidate the owner's member list and the per-category list
		_ = utils.DeleteCache(c.Request.Context(), rdb, membersCacheKey(member.AdminID), membersByCategoryCacheKey(member.CategoryID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member deleted successfully"})
	}
}

// GetMembersByCategoryHandler lists all members of a category across all
// admins, with the owner and category populated
func GetMembersByCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("categoryId")) // Parse the path parameter
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "categoryId is required"})
			return
		}
		ctx := c.Request.Context()                 // Request context for Redis
		cacheKey := membersByCategoryCacheKey(id)  // Cache key scoped to the category
		var cached []MemberResponse                // Cached list shape
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "members": cached, "message": "members retrieved successfully", "status": http.StatusOK, "cached": true})
			return
		}
		var members []domain.Member // Members of this category, regardless of owner
		if err := db.Preload("Admin").Preload("Category").Where("category_id = ?", id).Find(&members).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Map members to the populated response shape
		resp := make([]MemberResponse, len(members))
		for i, m := range members {
			resp[i] = memberResponse(m)
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, listCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "members": resp, "message": "members retrieved successfully", "status": http.StatusOK, "cached": false})
	}
}
