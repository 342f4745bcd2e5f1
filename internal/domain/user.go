package domain

import "time"

// User Model
type User struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`                                   // Primary key
	Email              string     `gorm:"unique;not null" json:"email"`                           // Unique email, stored as supplied (exact-match lookups)
	Password           string     `gorm:"not null" json:"-"`                                      // Bcrypt hash, never serialized
	Name               string     `json:"name"`                                                   // Display name
	ProfilePicture     string     `json:"profilePicture"`                                         // Profile picture URL or reference
	Budget             float64    `gorm:"not null;default:0" json:"budget"`                       // Monthly budget
	IsTwoFactorEnabled bool       `gorm:"not null;default:false" json:"isTwoFactorEnabled"`       // Whether login requires an emailed OTP
	PendingOTP         string     `json:"-"`                                                      // Last issued OTP code, never serialized
	OTPExpiresAt       *time.Time `json:"-"`                                                      // OTP validity deadline, nil when no code pending
	Expenses           []Expense  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Owned expenses, removed with the user
}

// PublicUser is the outward projection of a User: identity and display
// fields only, password and OTP state stripped.
type PublicUser struct {
	ID                 uint    `json:"id"`                 // User ID
	Name               string  `json:"name"`               // Display name
	Email              string  `json:"email"`              // Email address
	IsTwoFactorEnabled bool    `json:"isTwoFactorEnabled"` // 2FA flag
	Budget             float64 `json:"budget"`             // Monthly budget
	ProfilePicture     string  `json:"profilePicture"`     // Profile picture
}

// Public converts a User to its outward projection
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		IsTwoFactorEnabled: u.IsTwoFactorEnabled,
		Budget:             u.Budget,
		ProfilePicture:     u.ProfilePicture,
	}
}
