package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/upload"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenshotCleanupRemovesQueuedFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "screenshots")
	require.NoError(t, os.MkdirAll(dir, 0755))
	file := filepath.Join(dir, "1-shot.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0644))
	outside := filepath.Join(root, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0644))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	svc := NewScreenshotCleanupService(pubSub, upload.NewLocalStore(root, 0), logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	svc.Enqueue(uuid.New(), "/uploads/screenshots/../keep.txt")
	svc.Enqueue(uuid.New(), "/uploads/screenshots/1-shot.png")

	assert.Eventually(t, func() bool {
		_, err := os.Stat(file)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	_, err := os.Stat(outside)
	assert.NoError(t, err, "paths outside the screenshot dir are never removed")
}
