package service

import (
	"context"
	"fmt"

	"airdrop-tracker-be/internal/constant"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/repository/unitofwork"
	"airdrop-tracker-be/pkg/events"
	pktNats "airdrop-tracker-be/pkg/nats"

	"github.com/google/uuid"
)

// EventSubscriber is the part of the bus the activity log needs.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type IActivityService interface {
	Start(ctx context.Context) error
	HandleEvent(ctx context.Context, event events.Event) error
}

// activityService records every domain event as an activity log row.
type activityService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory, sub EventSubscriber, log logger.ILogger) IActivityService {
	return &activityService{
		uowFactory: uowFactory,
		subscriber: sub,
		logger:     log,
	}
}

func (s *activityService) Start(ctx context.Context) error {
	subject := pktNats.SubjectPrefix + ">"
	if err := s.subscriber.Subscribe(ctx, subject, constant.ActivityDurableName, s.HandleEvent); err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return err
	}
	s.logger.Info("ActivityService", fmt.Sprintf("Activity log listening to %s", subject), nil)
	return nil
}

func (s *activityService) HandleEvent(ctx context.Context, event events.Event) error {
	details := event.Payload()
	if details == nil {
		details = map[string]interface{}{}
	}

	entry := &entity.ActivityLog{
		EventType:  event.EventType(),
		Details:    details,
		OccurredAt: event.Timestamp(),
	}
	if raw, ok := details["user_id"].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			entry.UserId = &id
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ActivityLogRepository().Create(ctx, entry); err != nil {
		s.logger.Error("ActivityService", "Failed to record activity", map[string]interface{}{"type": event.EventType(), "error": err})
		return err
	}
	return nil
}
