package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string     `json:"full_name"`
	BirthDate    string     `json:"birth_date"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-"`
	IsVerified   bool       `gorm:"not null;default:false" json:"is_verified"`
	OTP          string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	gorm.Model
}

// SetOTP stamps a fresh challenge on the record, replacing any outstanding one.
func (u *User) SetOTP(code string, expiresAt time.Time) {
	u.OTP = code
	u.OTPExpiresAt = &expiresAt
}

// ClearOTP removes the outstanding challenge. OTP and OTPExpiresAt are
// always set or cleared together.
func (u *User) ClearOTP() {
	u.OTP = ""
	u.OTPExpiresAt = nil
}
