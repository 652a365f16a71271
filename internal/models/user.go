package models

import "time"

// UserType is the fixed role assigned to a user at creation time.
type UserType string

const (
	UserTypeAdmin   UserType = "ADMIN"
	UserTypeBlogger UserType = "BLOGGER"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeAdmin, UserTypeBlogger:
		return true
	default:
		return false
	}
}

// User captures application-facing fields for a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Type         UserType  `json:"type"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}
