package api

import (
	"membership_system/internal/config"     // Configuration
	"membership_system/internal/metrics"    // Request/error counters
	"membership_system/internal/middleware" // Access guard and rate limiter
	"membership_system/internal/session"    // Session/token store
	"membership_system/internal/utils"      // Token lifetime
	"net/http"                              // Reachability probe status

	"github.com/gin-contrib/cors"                             // CORS middleware
	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Prometheus HTTP handler
	"github.com/redis/go-redis/v9"                            // Redis client
	"golang.org/x/time/rate"                                  // Rate limiter
	"gorm.io/gorm"                                            // GORM ORM library
)

// NewRouter assembles the full route tree: CORS for the configured client
// origin, global rate limiting, per-endpoint metrics, the public auth group,
// and the three guarded resource groups
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.New()                      // Gin router instance
	r.Use(gin.Logger(), gin.Recovery()) // Request logging and panic recovery

	// Allow the configured browser origin with credentials
	corsCfg := cors.DefaultConfig()
	if cfg.ClientURL != "" {
		corsCfg.AllowOrigins = []string{cfg.ClientURL} // Allowed browser origin
	} else {
		corsCfg.AllowAllOrigins = true // No origin configured, stay open
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"} // Allowed verbs
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"} // Allowed headers
	corsCfg.AllowCredentials = cfg.ClientURL != ""                             // Credentials only with a pinned origin
	r.Use(cors.New(corsCfg))

	limiter := rate.NewLimiter(50, 100)            // Global token bucket
	r.Use(middleware.RateLimitMiddleware(limiter)) // Reject over-capacity requests
	r.Use(metrics.Middleware())                    // Count calls and errors per endpoint

	// Reachability probe
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Backend reachable!"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // Prometheus metrics

	// Session store shares the token lifetime so entries expire with the token
	sessions := session.NewStore(rdb, utils.TokenLifetime)

	// Auth routes (public; logout validates the token from the body)
	authGroup := r.Group("/api/auth/v1")
	authGroup.POST("/register", RegisterHandler(db))                      // Registration endpoint
	authGroup.POST("/login", LoginHandler(db, sessions, cfg.JWTSecret))   // Login endpoint
	authGroup.POST("/logout", LogoutHandler(db, sessions, cfg.JWTSecret)) // Logout endpoint

	guard := middleware.JWTAuthMiddleware(db, cfg.JWTSecret) // Access guard for protected groups

	// Category routes (protected)
	categoryGroup := r.Group("/api/category/v1")
	categoryGroup.Use(guard)
	categoryGroup.POST("/create", CreateCategoryHandler(db, rdb))                          // Create category endpoint
	categoryGroup.GET("/get-categories", GetCategoriesHandler(db, rdb))                    // Scoped list endpoint
	categoryGroup.GET("/get-categories-by-id/:categoryId", GetCategoryByIDHandler(db))     // Filtered list by id
	categoryGroup.PUT("/update-categories/:categoryId", UpdateCategoryHandler(db, rdb))    // Update endpoint
	categoryGroup.DELETE("/delete-categories/:categoryId", DeleteCategoryHandler(db, rdb)) // Delete endpoint

	// Member routes (protected)
	memberGroup := r.Group("/api/member/v1")
	memberGroup.Use(guard)
	memberGroup.POST("/create", CreateMemberHandler(db, rdb))                                     // Create member endpoint
	memberGroup.GET("/get-members", GetMembersHandler(db, rdb))                                   // Scoped list endpoint
	memberGroup.PUT("/update-members/:memberId", UpdateMemberHandler(db, rdb))                    // Update endpoint
	memberGroup.DELETE("/delete-members/:memberId", DeleteMemberHandler(db, rdb))                 // Delete endpoint
	memberGroup.GET("/get-members-by-category/:categoryId", GetMembersByCategoryHandler(db, rdb)) // Unscoped per-category list

	// Payment report routes (protected)
	reportGroup := r.Group("/api/payment/report/v1")
	reportGroup.Use(guard)
	reportGroup.POST("/create-payment", CreateReportHandler(db, rdb))              // Create report endpoint
	reportGroup.GET("/view-payment", GetReportsHandler(db, rdb))                   // Scoped list endpoint
	reportGroup.PUT("/update-payment/:reportId", UpdateReportHandler(db, rdb))     // Update endpoint
	reportGroup.DELETE("/delete-payment/:reportId", DeleteReportHandler(db, rdb))  // Delete endpoint

	return r
}
