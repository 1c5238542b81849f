package api

import (
	"membership_system/internal/domain"  // Importing domain models
	"membership_system/internal/session" // Session/token store
	"membership_system/internal/utils"   // JWT utility functions
	"net/http"                           // HTTP status codes
	"time"                               // Timestamps for log fields

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
	Address  string `json:"address" binding:"required"`  // Address must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for logout; the token travels in the body, not the header
type LogoutRequest struct {
	Email string `json:"email" binding:"required"` // Email must be provided
	Token string `json:"token" binding:"required"` // Token must be provided
}

// RegisterHandler creates a new user; registration never issues a token
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If any field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "all fields required"})
			return
		}
		var existing domain.User // Look up an existing user by email
		// Email uniqueness is checked here only; there is no storage constraint
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			// Duplicate email, return a distinguishable conflict
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "user already exists"})
			return
		}
		// Hash the password before persisting
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
			return
		}
		// New users start logged out with no token
		user := domain.User{
			Username:   req.Username, // Display name
			Email:      req.Email,    // Login email
			Password:   string(hash), // Bcrypt hash
			Address:    req.Address,  // Postal address
			IsLoggedIn: false,        // Not logged in until Login succeeds
			Token:      "",           // No session token issued at registration
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log successful registration
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // New user ID
			"email":   user.Email, // Registered email
		}).Info("User registered")
		// Return success response; no token is issued here
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "user registered successfully in the system"})
	}
}

// LoginHandler authenticates a user, issues a session token, persists it on
// the user record and in the session store, and returns it
func LoginHandler(db *gorm.DB, store *session.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If either field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "all fields required"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			// Unknown email terminates with not found
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user does not exist in the system"})
			return
		}
		// Compare provided password with stored hash; a mismatch terminates
		// the request with 401 rather than leaving it hanging
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
			return
		}
		// Issue the session token
		token, err := utils.GenerateJWT(user.ID, user.Username, user.Email, user.Address, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
			return
		}
		// Store the session; this replaces any previous session for the user,
		// silently invalidating the old token for Logout
		if err := store.Put(c.Request.Context(), token, session.Session{UserID: user.ID, Email: user.Email}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		user.IsLoggedIn = true // Mark the user as logged in
		user.Token = token     // Mirror the current token on the user record
		if err := db.Save(&user).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Log successful login
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,                         // User ID
			"email":     user.Email,                      // Login email
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("User logged in")
		// Return the token in the response
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "user logged in successfully", "token": token})
	}
}

// LogoutHandler ends a session. The token must verify, match the supplied
// email, and match the user's stored token; any mismatch fails without
// mutating state.
func LogoutHandler(db *gorm.DB, store *session.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LogoutRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If either field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing email or token"})
			return
		}
		// Verify token signature and expiry
		claims, err := utils.ParseJWT(req.Token, jwtSecret)
		if err != nil {
			// Expired or malformed token
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token expired or invalid", "error": err.Error()})
			return
		}
		// The decoded token must belong to the supplied email
		if claims.Email != req.Email {
			c.JSON(http.StatusForbidden, gin.H{"message": "Email mismatch"})
			return
		}
		var user domain.User // Look up the user by email
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// The supplied token must still be an active session for this user;
		// a token superseded by a later login or past its TTL no longer
		// resolves in the store. The user record only mirrors the token,
		// the session store is authoritative.
		sess, active, err := store.Get(c.Request.Context(), req.Token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
			return
		}
		if !active || sess.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Token mismatch"})
			return
		}
		user.IsLoggedIn = false // Clear the logged-in flag
		user.Token = ""         // Clear the stored token
		if err := db.Save(&user).Error; err != nil {
			// Surface the store failure
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
			return
		}
		// Drop the session from the store; the user record is already
		// cleared, so a Redis failure here is logged but not fatal
		if err := store.Delete(c.Request.Context(), req.Token, user.ID); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Redis error
			}).Error("Failed to delete session")
		}
		// Log successful logout
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // User ID
			"email":   user.Email, // Login email
		}).Info("User logged out")
		c.JSON(http.StatusOK, gin.H{"message": "Logout successful"}) // Return success response
	}
}
