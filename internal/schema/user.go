package schema

import "time"

// User is a back-office login. Roles are held in casbin; Role mirrors the
// primary role for display.
type User struct {
	UUIDV7

	Username     string `gorm:"size:64;not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:32;not null" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`

	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`

	Timestamps
}
