package service

import (
	"context"
	"encoding/json"

	"airdrop-tracker-be/internal/constant"
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/upload"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IScreenshotQueue schedules a no longer referenced screenshot for removal.
type IScreenshotQueue interface {
	Enqueue(airdropId uuid.UUID, path string)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// screenshotCleanupService removes screenshot files off the request path.
type screenshotCleanupService struct {
	pubSub  *gochannel.GoChannel
	topic   string
	uploads *upload.LocalStore
	logger  logger.ILogger
}

type ScreenshotCleanupService interface {
	IScreenshotQueue
	IConsumerService
}

func NewScreenshotCleanupService(pubSub *gochannel.GoChannel, uploads *upload.LocalStore, log logger.ILogger) ScreenshotCleanupService {
	return &screenshotCleanupService{
		pubSub:  pubSub,
		topic:   constant.ScreenshotCleanupTopic,
		uploads: uploads,
		logger:  log,
	}
}

func (s *screenshotCleanupService) Enqueue(airdropId uuid.UUID, path string) {
	payload, err := json.Marshal(dto.ScreenshotCleanupMessage{Path: path, AirdropId: airdropId})
	if err != nil {
		s.logger.Error("ScreenshotCleanup", "Failed to encode cleanup message", map[string]interface{}{"error": err})
		return
	}
	if err := s.pubSub.Publish(s.topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Error("ScreenshotCleanup", "Failed to queue cleanup", map[string]interface{}{"path": path, "error": err})
	}
}

func (s *screenshotCleanupService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

// processMessage always acks. A file that cannot be removed now will not
// be removable on redelivery either.
func (s *screenshotCleanupService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var payload dto.ScreenshotCleanupMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("ScreenshotCleanup", "Failed to unmarshal message", map[string]interface{}{"error": err})
		return
	}

	if err := s.uploads.Remove(constant.ScreenshotDir, payload.Path); err != nil {
		s.logger.Warn("ScreenshotCleanup", "Failed to remove screenshot", map[string]interface{}{"path": payload.Path, "airdrop_id": payload.AirdropId, "error": err.Error()})
		return
	}
	s.logger.Info("ScreenshotCleanup", "Screenshot removed", map[string]interface{}{"path": payload.Path, "airdrop_id": payload.AirdropId})
}
