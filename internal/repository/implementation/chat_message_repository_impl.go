package implementation

import (
	"context"
	"time"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/mapper"
	"airdrop-tracker-be/internal/model"
	"airdrop-tracker-be/internal/repository/contract"
	"airdrop-tracker-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) InsertMessage(ctx context.Context, message *entity.ChatMessage) error {
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	m := r.mapper.ChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindRecentMessages(ctx context.Context, limit int) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := applySpecifications(r.db.WithContext(ctx),
		specification.NewestFirst{},
		specification.Pagination{Limit: limit},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return lo.Reverse(r.mapper.ChatMessagesToEntities(models)), nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ChatMessage{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
