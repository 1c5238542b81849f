package domain

import "time"

// PaymentReport Model
type PaymentReport struct {
	ID            uint      `gorm:"primaryKey" json:"id"`            // Primary key
	MemberID      uint      `gorm:"not null;index" json:"memberRef"` // Foreign key to Member
	Member        Member    `gorm:"foreignKey:MemberID" json:"-"`    // Referenced member, preloaded for population
	Amount        float64   `gorm:"not null" json:"amount"`          // Reported amount; presence-only validation, see handler
	PaymentMethod string    `gorm:"not null" json:"paymentMethod"`   // Free string; the cash/momo pay/... enum is a client-side contract
	PaymentDate   time.Time `gorm:"not null" json:"paymentDate"`     // Calendar date of the payment
	AdminID       uint      `gorm:"not null;index" json:"adminId"`   // Foreign key to the owning User
	Admin         User      `gorm:"foreignKey:AdminID" json:"-"`     // Owning admin, preloaded for population
	CreatedAt     time.Time `json:"createdAt"`                       // Record creation time
	UpdatedAt     time.Time `json:"updatedAt"`                       // Last mutation time
}
