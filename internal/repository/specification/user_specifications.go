package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEmail matches case-insensitively; emails are stored lowercase.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", strings.ToLower(strings.TrimSpace(s.Email)))
}

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

type ByGoogleID struct {
	GoogleID string
}

func (s ByGoogleID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("google_id = ?", s.GoogleID)
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ExcludeID drops one row, e.g. the caller when checking username uniqueness.
type ExcludeID struct {
	ID uuid.UUID
}

func (s ExcludeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id <> ?", s.ID)
}
