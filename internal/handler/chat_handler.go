package handler

import (
	"errors"

	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/service"
	internalWS "airdrop-tracker-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type ChatHandler struct {
	chat    service.IChatService
	hub     *internalWS.Hub
	tokens  *serverutils.TokenManager
	load    serverutils.PrincipalLoader
	protect fiber.Handler
	logger  logger.ILogger
}

func NewChatHandler(chat service.IChatService, hub *internalWS.Hub, tokens *serverutils.TokenManager, load serverutils.PrincipalLoader, protect fiber.Handler, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		chat:    chat,
		hub:     hub,
		tokens:  tokens,
		load:    load,
		protect: protect,
		logger:  log,
	}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/chat")
	g.Get("/ws", h.ServeWs)
	g.Get("/history", h.protect, h.History)
}

// ServeWs upgrades the connection. A token is optional; without one the
// connection is anonymous and can only read. A token that is present but
// bad is rejected before the upgrade.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	identity, err := h.resolveIdentity(c)
	if err != nil {
		h.logger.Warn("ChatHandler", "Rejected websocket handshake", map[string]interface{}{"error": err.Error(), "ip": c.IP()})
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatHandler", "Starting chat session", map[string]interface{}{"user_id": identity.UserID})
		internalWS.ServeWs(h.hub, conn, identity, h.chat)
		h.logger.Info("ChatHandler", "Chat session ended", map[string]interface{}{"user_id": identity.UserID})
	})(c)
}

// resolveIdentity reads the token from the "token" query (browsers cannot
// set headers on a websocket) or the Authorization header.
func (h *ChatHandler) resolveIdentity(c *fiber.Ctx) (internalWS.Identity, error) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr = serverutils.BearerToken(c)
	}
	if tokenStr == "" {
		return internalWS.Identity{}, nil
	}

	claims, err := h.tokens.Parse(tokenStr)
	if errors.Is(err, serverutils.ErrTokenExpired) {
		return internalWS.Identity{}, serverutils.Unauthorized("session expired")
	}
	if err != nil {
		return internalWS.Identity{}, serverutils.Unauthorized("invalid token")
	}

	user, err := h.load(c.UserContext(), claims.UserId)
	if err != nil {
		return internalWS.Identity{}, serverutils.Internal("failed to load user", err)
	}
	if user == nil {
		return internalWS.Identity{}, serverutils.Unauthorized("not authorized, user not found")
	}
	if !user.EmailVerified {
		return internalWS.Identity{}, serverutils.Forbidden("email not verified")
	}
	return internalWS.Identity{UserID: user.Id.String(), Username: user.Username}, nil
}

// History is the HTTP twin of request_chat_history.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	messages, err := h.chat.History(c.UserContext())
	if err != nil {
		return serverutils.Internal("failed to load chat history", err)
	}
	return c.JSON(serverutils.SuccessResponse("Chat history", messages))
}
