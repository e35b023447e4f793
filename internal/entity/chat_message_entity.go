package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is immutable once persisted.
type ChatMessage struct {
	Id         uuid.UUID
	SenderId   string
	SenderName string
	Content    string
	SentAt     time.Time
}
