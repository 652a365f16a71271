package dto

import "github.com/hongminglow/blog-be/internal/models"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Type     models.UserType `json:"type"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UserSummary is the roster entry returned by GET /users. ID is only
// populated for admin requesters.
type UserSummary struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
