package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/repository/contract"
	"airdrop-tracker-be/internal/repository/implementation"
	"airdrop-tracker-be/internal/testutil"
	"airdrop-tracker-be/internal/websocket"
	"airdrop-tracker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteChatService(t *testing.T, cfg config.ChatConfig) (IChatService, contract.ChatMessageRepository) {
	t.Helper()
	store := implementation.NewChatMessageRepository(testutil.NewTestDB(t))
	hub := websocket.NewHub(nil, "chat_events", 16, logger.NewNopLogger())
	return NewChatService(hub, store, events.NopPublisher{}, logger.NewNopLogger(), cfg), store
}

func TestHistoryLimitIsClampedToWindow(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		want       int
	}{
		{name: "zero falls back", configured: 0, want: 50},
		{name: "negative falls back", configured: -1, want: 50},
		{name: "above window falls back", configured: 80, want: 50},
		{name: "smaller window kept", configured: 10, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := chatTestConfig()
			cfg.HistoryLimit = tt.configured
			svc, store := newSQLiteChatService(t, cfg)

			ctx := context.Background()
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 60; i++ {
				require.NoError(t, store.InsertMessage(ctx, &entity.ChatMessage{
					Id:         uuid.New(),
					SenderId:   "seed",
					SenderName: "seed",
					Content:    fmt.Sprintf("m%d", i),
					SentAt:     base.Add(time.Duration(i) * time.Second),
				}))
			}

			history, err := svc.History(ctx)
			require.NoError(t, err)
			require.Len(t, history, tt.want)
			assert.Equal(t, "m59", history[len(history)-1].Content)
		})
	}
}

func TestNonPositivePersistTimeoutMeansNoTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		t.Run(timeout.String(), func(t *testing.T) {
			cfg := chatTestConfig()
			cfg.PersistTimeout = timeout
			svc, _ := newSQLiteChatService(t, cfg)

			c := websocket.NewClient(nil, websocket.Identity{UserID: "u1", Username: "alice"}, 16)
			svc.OnConnect(c)

			resp, err := svc.SendMessage(context.Background(), c, dto.SendMessageRequest{UserId: "u1", Username: "alice", Content: "gm"})
			require.NoError(t, err)
			assert.Equal(t, "gm", resp.Content)

			history, err := svc.History(context.Background())
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, resp.Id, history[0].Id)
		})
	}
}
