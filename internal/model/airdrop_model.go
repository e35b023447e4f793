package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Airdrop struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Description     string    `gorm:"type:text"`
	Link            string    `gorm:"type:text"`
	Blockchain      string    `gorm:"type:varchar(100)"`
	ExpectedValue   *float64
	Status          string `gorm:"type:varchar(20);not null;default:'TODO';index"`
	StartDate       *time.Time
	EndDate         *time.Time
	Notes           string `gorm:"type:text"`
	TokenSymbol     string `gorm:"type:varchar(50)"`
	ContractAddress string `gorm:"type:varchar(255)"`
	ClaimDate       *time.Time
	ClaimedAmount   *float64
	Screenshot      *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Airdrop) TableName() string {
	return "airdrops"
}

func (a *Airdrop) BeforeCreate(tx *gorm.DB) error {
	if a.Id == uuid.Nil {
		a.Id = uuid.New()
	}
	return nil
}

// AirdropStatusCount is the row shape of the per-status summary query.
type AirdropStatusCount struct {
	Status string
	Count  int64
}
