package domain

import "time"

// Expense Model
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                  // Primary key
	UserID      uint      `gorm:"index;not null" json:"userId"`          // Foreign key to the owning User
	Title       string    `gorm:"not null" json:"title"`                 // Free-text label
	Amount      float64   `gorm:"not null" json:"amount"`                // Spend amount, no sign constraint
	Category    string    `gorm:"not null" json:"category"`              // Free-text category
	Description string    `json:"description"`                          // Optional details
	Date        time.Time `json:"date"`                                 // Spend date, defaults to creation time
	CreatedAt   int64     `gorm:"autoCreateTime:milli" json:"createdAt"` // Timestamp of creation in milliseconds
}
