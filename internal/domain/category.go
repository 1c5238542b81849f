package domain

import "time"

// Category Model
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`          // Primary key
	CategoryName string    `gorm:"not null" json:"categoryName"`  // Category display name
	IsGroup      string    `gorm:"not null" json:"isGroup"`       // "true"/"false"; kept as a string because that is what the clients send
	AdminID      uint      `gorm:"not null;index" json:"adminId"` // Foreign key to the owning User
	Admin        User      `gorm:"foreignKey:AdminID" json:"-"`   // Owning admin, preloaded for population
	CreatedAt    time.Time `json:"createdAt"`                     // Record creation time
	UpdatedAt    time.Time `json:"updatedAt"`                     // Last mutation time
}
