package domain

import "time"

// User Model
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`            // Primary key
	Username   string    `gorm:"not null" json:"username"`        // Display name
	Email      string    `gorm:"not null" json:"email"`           // Login email; uniqueness checked at registration only, no storage constraint
	Password   string    `gorm:"not null" json:"-"`               // Bcrypt hash, never serialized
	Address    string    `gorm:"not null" json:"address"`         // Postal address
	IsLoggedIn bool      `gorm:"default:false" json:"isLoggedIn"` // True while a session is active
	Token      string    `gorm:"default:''" json:"-"`             // Current session token, empty when logged out
	CreatedAt  time.Time `json:"createdAt"`                       // Record creation time
	UpdatedAt  time.Time `json:"updatedAt"`                       // Last mutation time
}
