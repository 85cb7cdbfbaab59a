package model

import (
	"time"

	"gorm.io/gorm"
)

// Role values stored on the user record.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity record. RefreshToken and RefreshTokenExpiresAt are
// always both nil or both set: together they are the single active session
// slot, overwritten on login, rotated on refresh and cleared on logout or
// password change.
type User struct {
	gorm.Model
	Email                 string     `gorm:"column:email;unique;not null"`
	Password              string     `gorm:"column:password;not null"`
	Name                  string     `gorm:"column:name"`
	Role                  string     `gorm:"column:role;default:user;not null"`
	RefreshToken          *string    `gorm:"column:refresh_token;default:null;index:idx_users_refresh_token,where:refresh_token IS NOT NULL"`
	RefreshTokenExpiresAt *time.Time `gorm:"column:refresh_token_expires_at;default:null"`
}

// HasActiveRefreshToken reports whether the session slot holds an unexpired
// refresh token.
func (u *User) HasActiveRefreshToken(now time.Time) bool {
	return u.RefreshToken != nil && u.RefreshTokenExpiresAt != nil && u.RefreshTokenExpiresAt.After(now)
}
