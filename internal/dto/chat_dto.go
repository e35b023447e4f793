package dto

import (
	"time"

	"github.com/google/uuid"
)

// SendMessageRequest is the payload of the send_message socket event.
type SendMessageRequest struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

type ChatMessageResponse struct {
	Id         uuid.UUID `json:"id"`
	SenderId   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sentAt"`
}
