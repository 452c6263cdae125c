package controller

import (
	"errors"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/dto"
	"github.com/saikiransomanagoudar/sonarcare/internal/pkg/serverutils"
	"github.com/saikiransomanagoudar/sonarcare/internal/service"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/history"
	chatmsg "github.com/saikiransomanagoudar/sonarcare/pkg/chat/message"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/orchestrator"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	GetSessions(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	UpdateSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	orch        *orchestrator.Orchestrator
	publisher   service.IPublisherService
	histLoader  *history.Loader
}

func NewChatController(
	chatService service.IChatService,
	orch *orchestrator.Orchestrator,
	publisher service.IPublisherService,
	histLoader *history.Loader,
) IChatController {
	return &chatController{
		chatService: chatService,
		orch:        orch,
		publisher:   publisher,
		histLoader:  histLoader,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("message", c.SendMessage)
	h.Get("messages", c.GetMessages)
	h.Post("sessions", c.CreateSession)
	h.Get("sessions", c.GetSessions)
	h.Get("session/:id", c.GetSession)
	h.Put("session/:id", c.UpdateSession)
	h.Delete("session/:id", c.DeleteSession)
}

// SendMessage runs the full pipeline and blocks until the terminal event,
// for clients that do not hold a websocket open.
func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	uid := ctx.Locals("user_id").(string)

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if req.UserId != uid {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "User mismatch"))
	}

	if _, err := c.chatService.GetSession(ctx.Context(), uid, req.SessionId); err != nil {
		return mapServiceError(ctx, err)
	}

	userMsg := chatmsg.NewUser(req.Text, req.SessionId, uid)
	c.publisher.Persist(userMsg)
	c.histLoader.Record(userMsg)

	var final *dto.MessageResponse
	events := c.orch.Process(ctx.Context(), orchestrator.Query{
		Text:      req.Text,
		SessionID: req.SessionId,
		UserID:    uid,
	})
	for ev := range events {
		if !ev.IsTerminal() {
			continue
		}
		if ev.Message != nil {
			final = &dto.MessageResponse{
				Id:        ev.Message.Id,
				Text:      ev.Message.Text,
				Sender:    ev.Message.Sender,
				SessionId: ev.Message.SessionId,
				UserId:    ev.Message.UserId,
				Timestamp: ev.Message.Timestamp.Format(time.RFC3339),
				IsError:   ev.Message.IsError,
				Metadata:  ev.Message.Metadata,
			}
		} else {
			final = &dto.MessageResponse{
				Id:        uuid.New(),
				Text:      ev.Data,
				Sender:    constant.SenderBot,
				SessionId: req.SessionId,
				UserId:    uid,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				IsError:   ev.Type == stream.EventError,
				Metadata:  ev.Metadata,
			}
		}
	}
	if final == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no response produced")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", final))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	uid := ctx.Locals("user_id").(string)

	sessionId, err := uuid.Parse(ctx.Query("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid sessionId")
	}
	limit := ctx.QueryInt("limit", 0)

	res, err := c.chatService.GetMessages(ctx.Context(), uid, sessionId, limit)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	uid := ctx.Locals("user_id").(string)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.UserId == "" {
		req.UserId = uid
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if req.UserId != uid {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "User mismatch"))
	}

	res, err := c.chatService.CreateSession(ctx.Context(), uid, &req)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	uid := ctx.Locals("user_id").(string)

	res, err := c.chatService.GetSessions(ctx.Context(), uid)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	uid := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.chatService.GetSession(ctx.Context(), uid, id)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *chatController) UpdateSession(ctx *fiber.Ctx) error {
	uid := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	var req dto.UpdateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Id = id

	res, err := c.chatService.UpdateSession(ctx.Context(), uid, &req)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update session", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	uid := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	if err := c.chatService.DeleteSession(ctx.Context(), uid, id); err != nil {
		return mapServiceError(ctx, err)
	}
	c.histLoader.Invalidate(id.String(), uid)

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func mapServiceError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	case errors.Is(err, service.ErrAccessDenied):
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied"))
	default:
		return err
	}
}
