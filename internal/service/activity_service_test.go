package service

import (
	"context"
	"errors"
	"testing"

	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/pkg/events"
	pktNats "airdrop-tracker-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	subject string
	durable string
	handler pktNats.EventHandler
	err     error
}

func (s *fakeSubscriber) Subscribe(_ context.Context, subject, durableName string, handler pktNats.EventHandler) error {
	s.subject, s.durable, s.handler = subject, durableName, handler
	return s.err
}

func TestActivityServiceRecordsEvents(t *testing.T) {
	factory := newTestFactory(t)
	sub := &fakeSubscriber{}
	svc := NewActivityService(factory, sub, logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, svc.Start(ctx))
	assert.Equal(t, "events.>", sub.subject)
	assert.Equal(t, "activity-log", sub.durable)
	require.NotNil(t, sub.handler)

	userId := uuid.New()
	require.NoError(t, sub.handler(ctx, events.New(events.UserLogin, map[string]interface{}{"user_id": userId.String()})))
	require.NoError(t, sub.handler(ctx, events.New(events.ChatMessageSent, nil)))

	admin := NewAdminService(factory, nil, nil, nil, events.NopPublisher{}, logger.NewNopLogger())
	recent, err := admin.RecentActivity(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, recent, 2)

	logins, err := admin.RecentActivity(ctx, 10, "user_login")
	require.NoError(t, err)
	require.Len(t, logins, 1)

	byType := map[string]*uuid.UUID{}
	for _, r := range recent {
		byType[r.EventType] = r.UserId
	}
	require.NotNil(t, byType[events.UserLogin])
	assert.Equal(t, userId, *byType[events.UserLogin])
	assert.Nil(t, byType[events.ChatMessageSent])
}

func TestActivityServiceStartFailure(t *testing.T) {
	sub := &fakeSubscriber{err: errors.New("no stream")}
	svc := NewActivityService(newTestFactory(t), sub, logger.NewNopLogger())
	assert.Error(t, svc.Start(context.Background()))
}
