package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                uuid.UUID
	Username          string
	Email             string
	PasswordHash      string
	EmailVerified     bool
	VerificationToken *string
	GoogleId          *string
	IsAdmin           bool
	ProfilePicture    *string
	Level             int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanAccess reports whether u may read or modify a resource owned by ownerId.
func (u *User) CanAccess(ownerId uuid.UUID) bool {
	return u.IsAdmin || u.Id == ownerId
}
