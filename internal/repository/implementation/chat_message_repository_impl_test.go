package implementation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/repository/implementation"
	"airdrop-tracker-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessageRepository_InsertAssignsIdentity(t *testing.T) {
	repo := implementation.NewChatMessageRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	msg := &entity.ChatMessage{SenderId: "u1", SenderName: "alice", Content: "hi"}
	require.NoError(t, repo.InsertMessage(ctx, msg))

	assert.NotEqual(t, uuid.Nil, msg.Id)
	assert.False(t, msg.SentAt.IsZero())
	assert.WithinDuration(t, time.Now(), msg.SentAt, 5*time.Second)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestChatMessageRepository_FindRecentMessages(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		stored    int
		limit     int
		wantCount int
		wantFirst int
	}{
		{name: "empty store", stored: 0, limit: 50, wantCount: 0},
		{name: "fewer than limit", stored: 3, limit: 50, wantCount: 3, wantFirst: 0},
		{name: "more than limit keeps newest", stored: 60, limit: 50, wantCount: 50, wantFirst: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := implementation.NewChatMessageRepository(testutil.NewTestDB(t))

			for i := 0; i < tt.stored; i++ {
				require.NoError(t, repo.InsertMessage(ctx, &entity.ChatMessage{
					SenderId:   "u1",
					SenderName: "alice",
					Content:    fmt.Sprintf("m%d", i),
					SentAt:     base.Add(time.Duration(i) * time.Second),
				}))
			}

			got, err := repo.FindRecentMessages(ctx, tt.limit)
			require.NoError(t, err)
			require.Len(t, got, tt.wantCount)
			if tt.wantCount == 0 {
				return
			}

			assert.Equal(t, fmt.Sprintf("m%d", tt.wantFirst), got[0].Content)
			assert.Equal(t, fmt.Sprintf("m%d", tt.stored-1), got[len(got)-1].Content)
			for i := 1; i < len(got); i++ {
				assert.False(t, got[i].SentAt.Before(got[i-1].SentAt), "history must be ascending")
			}
		})
	}
}
