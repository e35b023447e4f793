package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse never carries the password hash or verification token.
type UserResponse struct {
	Id             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	EmailVerified  bool      `json:"emailVerified"`
	IsAdmin        bool      `json:"isAdmin"`
	ProfilePicture *string   `json:"profilePicture"`
	Level          int       `json:"level"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UpdateProfileRequest is bound from a multipart form. Nil Username means
// unchanged.
type UpdateProfileRequest struct {
	Username            *string `validate:"omitempty,min=3,max=30"`
	CurrentPassword     string
	NewPassword         string `validate:"omitempty,min=6"`
	ClearProfilePicture bool
}
