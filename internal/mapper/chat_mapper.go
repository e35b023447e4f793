package mapper

import (
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/model"

	"github.com/samber/lo"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatMessageToEntity(c *model.ChatMessage) *entity.ChatMessage {
	if c == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:         c.Id,
		SenderId:   c.SenderId,
		SenderName: c.SenderName,
		Content:    c.Content,
		SentAt:     c.SentAt.UTC(),
	}
}

func (m *ChatMapper) ChatMessageToModel(c *entity.ChatMessage) *model.ChatMessage {
	if c == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:         c.Id,
		SenderId:   c.SenderId,
		SenderName: c.SenderName,
		Content:    c.Content,
		SentAt:     c.SentAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(messages []*model.ChatMessage) []*entity.ChatMessage {
	return lo.Map(messages, func(c *model.ChatMessage, _ int) *entity.ChatMessage {
		return m.ChatMessageToEntity(c)
	})
}
