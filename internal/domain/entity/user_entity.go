package entity

import (
	"time"
)

// User is a registered account.
// PasswordHash holds the bcrypt output, never the raw password.
// ResetToken and ResetTokenExpiry are either both set or both nil.
type User struct {
	ID               int64
	Name             string
	Email            string
	PasswordHash     string
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
}

// UserSummary is the public view of a user returned after login.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
