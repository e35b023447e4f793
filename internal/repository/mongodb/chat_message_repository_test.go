package mongodb_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/repository/mongodb"
	"airdrop-tracker-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type warnRecorder struct {
	*logger.ZapLogger
	mu    sync.Mutex
	warns []string
}

func (w *warnRecorder) Warn(_, message string, _ map[string]interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warns = append(w.warns, message)
}

func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MONGO_URI not set")
	}

	client, err := database.NewMongoClient(uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(fmt.Sprintf("airdrop_tracker_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })
	return db
}

// Runs against a live server when MONGO_URI is set.
func TestChatMessageRepositoryMongo(t *testing.T) {
	db := testDatabase(t)

	ctx := context.Background()
	repo := mongodb.NewChatMessageRepository(db, logger.NewNopLogger())

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.InsertMessage(ctx, &entity.ChatMessage{
			SenderId:   "u1",
			SenderName: "alice",
			Content:    fmt.Sprintf("msg-%d", i),
			SentAt:     base.Add(time.Duration(i) * time.Millisecond),
		}))
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	recent, err := repo.FindRecentMessages(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "msg-2", recent[0].Content)
	assert.Equal(t, "msg-4", recent[2].Content)
}

func TestChatMessageRepositoryMongoLogsForeignIds(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	log := &warnRecorder{ZapLogger: logger.NewNopLogger()}
	repo := mongodb.NewChatMessageRepository(db, log)

	require.NoError(t, repo.InsertMessage(ctx, &entity.ChatMessage{SenderId: "u1", SenderName: "alice", Content: "kept"}))
	_, err := db.Collection(mongodb.ChatMessagesCollection).InsertOne(ctx, bson.M{
		"_id":         "legacy-1",
		"sender_id":   "u2",
		"sender_name": "bob",
		"content":     "legacy",
		"sent_at":     time.Now().UTC(),
	})
	require.NoError(t, err)

	recent, err := repo.FindRecentMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "kept", recent[0].Content)

	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Contains(t, log.warns, "Skipping message with non-UUID id")
}
