package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/repository/memory"
	internalWS "airdrop-tracker-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChatService struct {
	mock.Mock
}

func (m *mockChatService) OnConnect(*internalWS.Client) {}
func (m *mockChatService) OnEvent(*internalWS.Client, internalWS.Envelope) {}
func (m *mockChatService) OnDisconnect(*internalWS.Client) {}
func (m *mockChatService) RequestHistory(context.Context, *internalWS.Client) {}

func (m *mockChatService) History(ctx context.Context) ([]*dto.ChatMessageResponse, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*dto.ChatMessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChatService) SendMessage(ctx context.Context, c *internalWS.Client, req dto.SendMessageRequest) (*dto.ChatMessageResponse, error) {
	args := m.Called(ctx, c, req)
	return nil, args.Error(1)
}

func newChatApp(t *testing.T, chat *mockChatService, users map[uuid.UUID]*entity.User) (*fiber.App, *serverutils.TokenManager) {
	t.Helper()
	tokens := serverutils.NewTokenManager("test-secret", time.Hour)
	load := func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return users[id], nil
	}
	protect := serverutils.Protect(tokens, load, memory.NewPrincipalCache(time.Minute))
	hub := internalWS.NewHub(nil, "chat_events", 16, logger.NewNopLogger())

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatHandler(chat, hub, tokens, load, protect, logger.NewNopLogger()).RegisterRoutes(app.Group("/api"))
	return app, tokens
}

func TestChatHistoryEndpoint(t *testing.T) {
	user := &entity.User{Id: uuid.New(), Username: "alice", EmailVerified: true}
	chat := &mockChatService{}
	chat.On("History", mock.Anything).Return([]*dto.ChatMessageResponse{
		{Id: uuid.New(), SenderId: user.Id.String(), SenderName: "alice", Content: "gm", SentAt: time.Now().UTC()},
	}, nil)
	app, tokens := newChatApp(t, chat, map[uuid.UUID]*entity.User{user.Id: user})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/history", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := tokens.Issue(user)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out serverutils.BaseResponse[[]dto.ChatMessageResponse]
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "gm", out.Data[0].Content)
	chat.AssertExpectations(t)
}

func TestChatWsRequiresUpgrade(t *testing.T) {
	app, _ := newChatApp(t, &mockChatService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestChatWsRejectsBadToken(t *testing.T) {
	app, _ := newChatApp(t, &mockChatService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/ws?token=garbage", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
