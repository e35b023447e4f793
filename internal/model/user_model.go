package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username          string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash      string    `gorm:"type:varchar(255);not null"`
	EmailVerified     bool      `gorm:"default:false"`
	VerificationToken *string   `gorm:"type:varchar(128)"`
	GoogleId          *string   `gorm:"type:varchar(255);uniqueIndex"`
	IsAdmin           bool      `gorm:"default:false"`
	ProfilePicture    *string   `gorm:"type:text"`
	Level             int       `gorm:"default:1"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Id == uuid.Nil {
		u.Id = uuid.New()
	}
	return nil
}
