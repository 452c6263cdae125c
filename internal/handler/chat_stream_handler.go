package handler

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/pkg/logger"
	"github.com/saikiransomanagoudar/sonarcare/internal/service"
	internalWS "github.com/saikiransomanagoudar/sonarcare/internal/websocket"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/dedup"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/history"
	chatmsg "github.com/saikiransomanagoudar/sonarcare/pkg/chat/message"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/orchestrator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const queryTimeout = 2 * time.Minute

// inboundFrame is what the browser sends over the socket.
type inboundFrame struct {
	Type      string `json:"type"` // "join" | "leave" | "message"
	SessionId string `json:"sessionId"`
	Text      string `json:"text"`
}

type ChatStreamHandler struct {
	hub         *internalWS.Hub
	orch        *orchestrator.Orchestrator
	chatService service.IChatService
	publisher   service.IPublisherService
	histLoader  *history.Loader
	guard       *dedup.Guard
	logger      logger.ILogger
}

func NewChatStreamHandler(
	hub *internalWS.Hub,
	orch *orchestrator.Orchestrator,
	chatService service.IChatService,
	publisher service.IPublisherService,
	histLoader *history.Loader,
	guard *dedup.Guard,
	log logger.ILogger,
) *ChatStreamHandler {
	h := &ChatStreamHandler{
		hub:         hub,
		orch:        orch,
		chatService: chatService,
		publisher:   publisher,
		histLoader:  histLoader,
		guard:       guard,
		logger:      log,
	}
	hub.OnInbound = h.handleInbound
	return h
}

// ServeWs authenticates the handshake and upgrades the connection.
func (h *ChatStreamHandler) ServeWs(c *fiber.Ctx) error {
	// Query param first (browsers cannot set headers on ws), then the
	// Authorization header for tooling.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("ChatStreamHandler", "Invalid token in ws handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ChatStreamHandler", "WebSocket session started", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("ChatStreamHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *ChatStreamHandler) handleInbound(c *internalWS.Client, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.sendError(c, "malformed frame")
		return
	}

	switch frame.Type {
	case "join":
		h.handleJoin(c, frame)
	case "leave":
		h.handleLeave(c, frame)
	case "message":
		h.handleMessage(c, frame)
	default:
		h.sendError(c, "unknown frame type")
	}
}

func (h *ChatStreamHandler) handleJoin(c *internalWS.Client, frame inboundFrame) {
	sessionID, err := uuid.Parse(frame.SessionId)
	if err != nil {
		h.sendError(c, "invalid session id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := h.chatService.GetSession(ctx, c.UserID, sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) || errors.Is(err, service.ErrAccessDenied) {
			h.sendError(c, "session not found")
			return
		}
		h.sendError(c, "could not join session")
		return
	}

	h.hub.Join(c, sessionID)
	h.sendFrame(c, map[string]interface{}{"type": "joined", "sessionId": sessionID.String()})
}

func (h *ChatStreamHandler) handleLeave(c *internalWS.Client, frame inboundFrame) {
	sessionID, err := uuid.Parse(frame.SessionId)
	if err != nil {
		return
	}
	h.hub.Leave(c, sessionID)
	h.sendFrame(c, map[string]interface{}{"type": "left", "sessionId": sessionID.String()})
}

func (h *ChatStreamHandler) handleMessage(c *internalWS.Client, frame inboundFrame) {
	sessionID, err := uuid.Parse(frame.SessionId)
	if err != nil || frame.Text == "" {
		h.sendError(c, "message needs text and sessionId")
		return
	}

	// Ownership is verified before anything is echoed, cached or queued,
	// same as join. A valid token alone must not let a client write into
	// another user's session room.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := h.chatService.GetSession(ctx, c.UserID, sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) || errors.Is(err, service.ErrAccessDenied) {
			h.sendError(c, "session not found")
			return
		}
		h.sendError(c, "could not send message")
		return
	}

	// Double-send guard: identical text in the same session inside the
	// window is silently dropped.
	if !h.guard.FirstSeen(c.UserID, sessionID.String(), frame.Text) {
		h.logger.Info("ChatStreamHandler", "Duplicate message dropped", map[string]interface{}{
			"user_id":    c.UserID,
			"session_id": sessionID.String(),
		})
		return
	}

	userMsg := chatmsg.NewUser(frame.Text, sessionID, c.UserID)
	h.publisher.Persist(userMsg)
	h.histLoader.Record(userMsg)
	h.emitMessage(sessionID, userMsg.Id, "chat_message", frame.Text, c.UserID)

	go h.relay(orchestrator.Query{
		Text:      frame.Text,
		SessionID: sessionID,
		UserID:    c.UserID,
	})
}

// relay drains the orchestrator's event stream into the session room. The
// stream is drained fully even when every member has disconnected, so the
// response still lands in the response cache and the store.
func (h *ChatStreamHandler) relay(q orchestrator.Query) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	for ev := range h.orch.Process(ctx, q) {
		data, err := json.Marshal(map[string]interface{}{
			"type":      "chat_event",
			"sessionId": q.SessionID.String(),
			"event":     ev,
		})
		if err != nil {
			h.logger.Error("ChatStreamHandler", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
			continue
		}
		h.hub.EmitToRoom(q.SessionID, data)
	}
}

func (h *ChatStreamHandler) emitMessage(sessionID, messageID uuid.UUID, frameType, text, userID string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":      frameType,
		"sessionId": sessionID.String(),
		"message": map[string]interface{}{
			"id":        messageID.String(),
			"text":      text,
			"sender":    constant.SenderUser,
			"sessionId": sessionID.String(),
			"userId":    userID,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
	h.hub.EmitToRoom(sessionID, data)
}

func (h *ChatStreamHandler) sendFrame(c *internalWS.Client, frame map[string]interface{}) {
	data, _ := json.Marshal(frame)
	select {
	case c.Send <- data:
	default:
	}
}

func (h *ChatStreamHandler) sendError(c *internalWS.Client, message string) {
	h.sendFrame(c, map[string]interface{}{"type": "error", "message": message})
}

// RegisterRoutes registers the websocket endpoint.
func (h *ChatStreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/chat/v1/ws", h.ServeWs)
}
