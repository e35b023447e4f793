package specification

import (
	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// WithOwner preloads the owning user (username and email only).
type WithOwner struct{}

func (s WithOwner) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username", "email")
	})
}
