package domain

import "time"

// Member Model
type Member struct {
	ID         uint      `gorm:"primaryKey" json:"id"`              // Primary key
	MemberName string    `gorm:"not null" json:"memberName"`        // Member display name
	Zone       string    `gorm:"not null" json:"zone"`              // Free-text location/grouping
	CategoryID uint      `gorm:"not null;index" json:"categoryRef"` // Foreign key to Category; immutable after creation
	Category   Category  `gorm:"foreignKey:CategoryID" json:"-"`    // Referenced category, preloaded for population
	AdminID    uint      `gorm:"not null;index" json:"adminId"`     // Foreign key to the owning User
	Admin      User      `gorm:"foreignKey:AdminID" json:"-"`       // Owning admin, preloaded for population
	CreatedAt  time.Time `json:"createdAt"`                         // Record creation time
	UpdatedAt  time.Time `json:"updatedAt"`                         // Last mutation time
}
