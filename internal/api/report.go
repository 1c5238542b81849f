package api

import (
	"membership_system/internal/domain" // Importing domain models
	"membership_system/internal/utils"  // Cache helpers
	"net/http"                          // HTTP status codes
	"time"                              // Payment date parsing

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for payment report creation. Validation is presence-only:
// a negative amount or a method outside the cash/momo pay/airtel money/
// borderaux payed set is accepted here; that enum is enforced by the clients.
type CreateReportRequest struct {
	MemberRef     uint    `json:"memberRef" binding:"required"`     // Referenced member must be provided
	Amount        float64 `json:"amount" binding:"required"`        // Amount must be provided
	PaymentMethod string  `json:"paymentMethod" binding:"required"` // Method must be provided
	PaymentDate   string  `json:"paymentDate" binding:"required"`   // Date must be provided
}

// Request struct for payment report update; the member reference is optional
type UpdateReportRequest struct {
	MemberRef     uint    `json:"memberRef"`                        // Optional member reassignment
	Amount        float64 `json:"amount" binding:"required"`        // Amount must be provided
	PaymentMethod string  `json:"paymentMethod" binding:"required"` // Method must be provided
	PaymentDate   string  `json:"paymentDate" binding:"required"`   // Date must be provided
}

// ReportResponse is a payment report with its member and owner populated
type ReportResponse struct {
	ID            uint         `json:"id"`            // Report ID
	MemberRef     uint         `json:"memberRef"`     // Referenced member ID
	MemberName    string       `json:"memberName"`    // Populated member name
	Amount        float64      `json:"amount"`        // Reported amount
	PaymentMethod string       `json:"paymentMethod"` // Payment method
	PaymentDate   string       `json:"paymentDate"`   // Payment date (YYYY-MM-DD)
	Admin         AdminSummary `json:"admin"`         // Populated owner
}

// reportResponse maps a report with preloaded relations to its response shape
func reportResponse(r domain.PaymentReport) ReportResponse {
	return ReportResponse{
		ID:            r.ID,                               // Report ID
		MemberRef:     r.MemberID,                         // Referenced member ID
		MemberName:    r.Member.MemberName,                // Populated member name
		Amount:        r.Amount,                           // Reported amount
		PaymentMethod: r.PaymentMethod,                    // Payment method
		PaymentDate:   r.PaymentDate.Format("2006-01-02"), // Calendar date
		Admin:         adminSummary(r.Admin),              // Populated owner
	}
}

// parsePaymentDate accepts the calendar form the clients send and falls back
// to RFC3339
func parsePaymentDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil // Calendar date
	}
	return time.Parse(time.RFC3339, s) // Full timestamp fallback
}

// CreateReportHandler records a payment report owned by the acting admin;
// the referenced member must exist
func CreateReportHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)     // Acting admin from the access guard
		var req CreateReportRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If any field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
			return
		}
		paymentDate, err := parsePaymentDate(req.PaymentDate) // Parse the calendar date
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "paymentDate must be a valid date"})
			return
		}
		var member domain.Member // The referenced member must resolve
		if err := db.First(&member, req.MemberRef).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Member not found"})
			return
		}
		// Persist the report owned by the acting admin
		report := domain.PaymentReport{
			MemberID:      req.MemberRef,     // Verified member reference
			Amount:        req.Amount,        // Reported amount, presence-only validation
			PaymentMethod: req.PaymentMethod, // Method, accepted as-is
			PaymentDate:   paymentDate,       // Calendar date
			AdminID:       admin.ID,          // Owner is always the caller
		}
		if err := db.Create(&report).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log report creation
		logrus.WithFields(logrus.Fields{
			"admin_id":  admin.ID,   // Owner ID
			"report_id": report.ID,  // New report ID
			"member_id": member.ID,  // Referenced member ID
			"amount":    req.Amount, // Reported amount
		}).Info("Payment report created")
		// Invalidate the owner's cached report list
		_ = utils.DeleteCache(c.Request.Context(), rdb, reportsCacheKey(admin.ID))
		// Return the created record summary
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Payment report created successfully", "data": report})
	}
}

// GetReportsHandler lists the acting admin's payment reports with the member
// and owner populated
func GetReportsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)               // Acting admin from the access guard
		ctx := c.Request.Context()            // Request context for Redis
		cacheKey := reportsCacheKey(admin.ID) // Cache key scoped to the owner
		var cached []ReportResponse           // Cached list shape
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "paymentReports": cached, "cached": true})
			return
		}
		var reports []domain.PaymentReport // Slice to hold reports
		// Fetch the owner's reports with relations preloaded for population
		if err := db.Preload("Admin").Preload("Member").Where("admin_id = ?", admin.ID).Find(&reports).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Map reports to the populated response shape
		resp := make([]ReportResponse, len(reports))
		for i, r := range reports {
			resp[i] = reportResponse(r)
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, listCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "paymentReports": resp, "cached": false})
	}
}

// UpdateReportHandler overwrites a report's fields; only the owning admin may
// mutate it, and a supplied member reference must resolve
func UpdateReportHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)                // Acting admin from the access guard
		id, ok := parseID(c.Param("reportId")) // Parse the path parameter
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "reportId is required"})
			return
		}
		var req UpdateReportRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If any required field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
			return
		}
		paymentDate, err := parsePaymentDate(req.PaymentDate) // Parse the calendar date
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "paymentDate must be a valid date"})
			return
		}
		var report domain.PaymentReport // Load the record to be mutated
		if err := db.First(&report, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment report not found"})
			return
		}
		// Ownership check: the caller must own the record
		if report.AdminID != admin.ID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Payment report belongs to another admin"})
			return
		}
		// Reassign the member only when a reference was supplied, and verify it
		if req.MemberRef != 0 {
			var member domain.Member
			if err := db.First(&member, req.MemberRef).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Member not found"})
				return
			}
			report.MemberID = req.MemberRef // Verified member reference
		}
		report.Amount = req.Amount               // Overwrite the amount
		report.PaymentMethod = req.PaymentMethod // Overwrite the method
		report.PaymentDate = paymentDate         // Overwrite the date
		if err := db.Save(&report).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log report update
		logrus.WithFields(logrus.Fields{
			"admin_id":  admin.ID,  // Owner ID
			"report_id": report.ID, // Updated report ID
		}).Info("Payment report updated")
		// Invalidate the owner's cached report list
		_ = utils.DeleteCache(c.Request.Context(), rdb, reportsCacheKey(report.AdminID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment report updated successfully"})
	}
}

// DeleteReportHandler deletes a payment report; only the owner may delete it
func DeleteReportHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := actingAdmin(c)                // Acting admin from the access guard
		id, ok := parseID(c.Param("reportId")) // Parse the path parameter
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "reportId is required"})
			return
		}
		var report domain.PaymentReport // Load the record to be deleted
		if err := db.First(&report, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment report not found"})
			return
		}
		// Ownership check: the caller must own the record
		if report.AdminID != admin.ID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Payment report belongs to another admin"})
			return
		}
		if err := db.Delete(&report).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log report deletion
		logrus.WithFields(logrus.Fields{
			"admin_id":  admin.ID,  // Owner ID
			"report_id": report.ID, // Deleted report ID
		}).Info("Payment report deleted")
		// Invalidate the owner's cached report list
		_ = utils.DeleteCache(c.Request.Context(), rdb, reportsCacheKey(report.AdminID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment report deleted successfully"})
	}
}
