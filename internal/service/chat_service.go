package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/constant"
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/repository/contract"
	"airdrop-tracker-be/internal/websocket"
	"airdrop-tracker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	ErrMessageIncomplete = errors.New("userId, username and content are required")
	ErrMessageTooLong    = errors.New("message content too long")
	ErrAnonymousSender   = errors.New("anonymous connections cannot send messages")
	ErrSenderMismatch    = errors.New("sender does not match the connection identity")
)

const eventPublishTimeout = 2 * time.Second

type IChatService interface {
	websocket.Dispatcher
	RequestHistory(ctx context.Context, c *websocket.Client)
	History(ctx context.Context) ([]*dto.ChatMessageResponse, error)
	SendMessage(ctx context.Context, c *websocket.Client, req dto.SendMessageRequest) (*dto.ChatMessageResponse, error)
}

type chatService struct {
	hub       *websocket.Hub
	store     contract.ChatMessageRepository
	publisher events.Publisher
	logger    logger.ILogger
	cfg       config.ChatConfig

	// mu serializes persist and broadcast so receive order equals
	// insertion order. lastSentAt is guarded by it.
	mu         sync.Mutex
	lastSentAt time.Time
	now        func() time.Time
}

// NewChatService falls back to the default window when the configured
// history limit is outside 1..MaxHistoryLimit.
func NewChatService(hub *websocket.Hub, store contract.ChatMessageRepository, publisher events.Publisher, log logger.ILogger, cfg config.ChatConfig) IChatService {
	if cfg.HistoryLimit < 1 || cfg.HistoryLimit > constant.MaxHistoryLimit {
		log.Warn("ChatService", "History limit out of range, using default", map[string]interface{}{"configured": cfg.HistoryLimit, "limit": constant.MaxHistoryLimit})
		cfg.HistoryLimit = constant.MaxHistoryLimit
	}
	return &chatService{
		hub:       hub,
		store:     store,
		publisher: publisher,
		logger:    log,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *chatService) OnConnect(c *websocket.Client) {
	s.hub.Register(c)
}

func (s *chatService) OnDisconnect(c *websocket.Client) {
	s.hub.Unregister(c)
}

func (s *chatService) OnEvent(c *websocket.Client, env websocket.Envelope) {
	ctx := context.Background()

	switch env.Event {
	case constant.ChatEventRequestHistory:
		s.RequestHistory(ctx, c)
	case constant.ChatEventSendMessage:
		var req dto.SendMessageRequest
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &req); err != nil {
				s.logger.Warn("ChatService", "Malformed send_message payload", map[string]interface{}{"conn_id": c.ID, "error": err.Error()})
				return
			}
		}
		// Failures are already logged; the sender gets no feedback.
		s.SendMessage(ctx, c, req)
	default:
		s.logger.Warn("ChatService", "Unknown event", map[string]interface{}{"conn_id": c.ID, "event": env.Event})
	}
}

// RequestHistory sends the recent window to c only. Read failures are
// logged and nothing is sent.
func (s *chatService) RequestHistory(ctx context.Context, c *websocket.Client) {
	history, err := s.History(ctx)
	if err != nil {
		s.logger.Error("ChatService", "Failed to load chat history", map[string]interface{}{"conn_id": c.ID, "error": err})
		return
	}

	frame, err := websocket.Encode(constant.ChatEventHistory, history)
	if err != nil {
		s.logger.Error("ChatService", "Failed to encode chat history", map[string]interface{}{"error": err})
		return
	}
	s.hub.SendTo(c, frame)
}

func (s *chatService) History(ctx context.Context) ([]*dto.ChatMessageResponse, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	messages, err := s.store.FindRecentMessages(ctx, s.cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}
	return lo.Map(messages, func(m *entity.ChatMessage, _ int) *dto.ChatMessageResponse {
		return toChatMessageResponse(m)
	}), nil
}

func (s *chatService) SendMessage(ctx context.Context, c *websocket.Client, req dto.SendMessageRequest) (*dto.ChatMessageResponse, error) {
	msg, err := s.buildMessage(c, req)
	if err != nil {
		s.logger.Warn("ChatService", "Dropping message", map[string]interface{}{"conn_id": c.ID, "user_id": req.UserId, "reason": err.Error()})
		return nil, err
	}

	resp, err := s.persistAndBroadcast(ctx, msg)
	if err != nil {
		s.logger.Error("ChatService", "Failed to persist message", map[string]interface{}{"conn_id": c.ID, "error": err})
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, "ChatService", events.ChatMessageSent, map[string]interface{}{
		"user_id":    resp.SenderId,
		"message_id": resp.Id.String(),
	})
	return resp, nil
}

func (s *chatService) buildMessage(c *websocket.Client, req dto.SendMessageRequest) (*entity.ChatMessage, error) {
	senderId := strings.TrimSpace(req.UserId)
	senderName := strings.TrimSpace(req.Username)
	content := strings.TrimSpace(req.Content)

	if senderId == "" || senderName == "" || content == "" {
		return nil, ErrMessageIncomplete
	}
	if s.cfg.MaxContentLength > 0 && utf8.RuneCountInString(content) > s.cfg.MaxContentLength {
		return nil, ErrMessageTooLong
	}

	if !s.cfg.TrustClientIdentity {
		if c.Identity.IsAnonymous() {
			return nil, ErrAnonymousSender
		}
		if senderId != c.Identity.UserID {
			return nil, ErrSenderMismatch
		}
		if c.Identity.Username != "" {
			senderName = c.Identity.Username
		}
	}

	return &entity.ChatMessage{
		SenderId:   senderId,
		SenderName: senderName,
		Content:    content,
	}, nil
}

func (s *chatService) persistAndBroadcast(ctx context.Context, msg *entity.ChatMessage) (*dto.ChatMessageResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.Id = uuid.New()
	msg.SentAt = s.nextSentAt()

	insertCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.InsertMessage(insertCtx, msg); err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}
	s.lastSentAt = msg.SentAt

	resp := toChatMessageResponse(msg)
	frame, err := websocket.Encode(constant.ChatEventReceiveMessage, resp)
	if err != nil {
		return nil, err
	}
	delivered := s.hub.Broadcast(frame)

	s.logger.Info("ChatService", "Message broadcast", map[string]interface{}{"message_id": msg.Id, "delivered": delivered})
	return resp, nil
}

// storeContext bounds a store call by PersistTimeout. Zero or negative
// means no timeout.
func (s *chatService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.PersistTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.PersistTimeout)
}

// nextSentAt is millisecond precision and strictly after the previous
// message. Caller holds mu.
func (s *chatService) nextSentAt() time.Time {
	t := s.now().UTC().Truncate(time.Millisecond)
	if !t.After(s.lastSentAt) {
		t = s.lastSentAt.Add(time.Millisecond)
	}
	return t
}

func toChatMessageResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:         m.Id,
		SenderId:   m.SenderId,
		SenderName: m.SenderName,
		Content:    m.Content,
		SentAt:     m.SentAt,
	}
}
