package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityLog struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	EventType  string         `gorm:"type:varchar(100);not null;index"`
	UserId     *uuid.UUID     `gorm:"type:uuid;index"`
	Details    datatypes.JSON `json:"details"`
	OccurredAt time.Time      `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
