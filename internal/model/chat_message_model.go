package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SenderId   string    `gorm:"type:varchar(64);not null;index"`
	SenderName string    `gorm:"type:varchar(100);not null"`
	Content    string    `gorm:"type:text;not null"`
	SentAt     time.Time `gorm:"not null;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
