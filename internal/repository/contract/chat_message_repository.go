package contract

import (
	"context"

	"airdrop-tracker-be/internal/entity"
)

// ChatMessageRepository is the append-only chat store. There is no update
// or delete on purpose: messages are immutable.
type ChatMessageRepository interface {
	// InsertMessage persists message, filling Id and SentAt when they are zero.
	InsertMessage(ctx context.Context, message *entity.ChatMessage) error
	// FindRecentMessages returns up to limit latest messages, oldest first.
	FindRecentMessages(ctx context.Context, limit int) ([]*entity.ChatMessage, error)
	Count(ctx context.Context) (int64, error)
}
