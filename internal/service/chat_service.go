package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/dto"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/internal/repository/specification"
	"github.com/saikiransomanagoudar/sonarcare/internal/repository/unitofwork"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/history"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrAccessDenied    = errors.New("access denied")
)

const sessionTitleMaxLen = 60

type IChatService interface {
	CreateSession(ctx context.Context, uid string, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, uid string, id uuid.UUID) (*dto.SessionResponse, error)
	GetSessions(ctx context.Context, uid string) ([]*dto.SessionResponse, error)
	UpdateSession(ctx context.Context, uid string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, uid string, id uuid.UUID) error

	CreateMessage(ctx context.Context, message *entity.ChatMessage) error
	GetMessages(ctx context.Context, uid string, sessionId uuid.UUID, limit int) ([]*dto.MessageResponse, error)

	// Messages satisfies history.Source for the orchestrator's loader.
	Messages(ctx context.Context, sessionID, userID string, limit int) ([]entity.ChatMessage, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChatService(uowFactory unitofwork.RepositoryFactory) IChatService {
	return &chatService{
		uowFactory: uowFactory,
	}
}

var _ history.Source = (IChatService)(nil)

func (s *chatService) CreateSession(ctx context.Context, uid string, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	if req.UserId != uid {
		return nil, ErrAccessDenied
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New Conversation"
	}

	now := time.Now().UTC()
	session := &entity.ChatSession{
		Id:             uuid.New(),
		UserId:         uid,
		Title:          title,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Id:             session.Id,
		UserId:         session.UserId,
		Title:          session.Title,
		CreatedAt:      session.CreatedAt.Format(time.RFC3339),
		LastActivityAt: session.LastActivityAt.Format(time.RFC3339),
	}, nil
}

func (s *chatService) GetSession(ctx context.Context, uid string, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.ownedSession(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *chatService) GetSessions(ctx context.Context, uid string) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: uid},
		specification.OrderBy{Field: "last_activity_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		res[i] = sessionToResponse(session)
	}
	return res, nil
}

func (s *chatService) UpdateSession(ctx context.Context, uid string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.ownedSession(ctx, uid, req.Id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		session.Title = truncateTitle(title)
	}
	if summary := strings.TrimSpace(req.Summary); summary != "" {
		session.Summary = summary
	}
	session.LastActivityAt = time.Now().UTC()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

// DeleteSession removes the session and its messages in one transaction.
func (s *chatService) DeleteSession(ctx context.Context, uid string, id uuid.UUID) error {
	if _, err := s.ownedSession(ctx, uid, id); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

// CreateMessage stores one turn and bumps the session's activity clock. A
// session with no real title yet takes its title from the first user
// message.
func (s *chatService) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	session, err := s.ownedSession(ctx, message.UserId, message.SessionId)
	if err != nil {
		return err
	}

	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	session.LastActivityAt = message.Timestamp
	if session.Title == "New Conversation" && message.Sender == constant.SenderUser {
		session.Title = truncateTitle(message.Text)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *chatService) GetMessages(ctx context.Context, uid string, sessionId uuid.UUID, limit int) ([]*dto.MessageResponse, error) {
	if _, err := s.ownedSession(ctx, uid, sessionId); err != nil {
		return nil, err
	}

	specs := []specification.Specification{
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "timestamp"},
	}
	if limit > 0 {
		specs = append(specs, specification.Limit{N: limit})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageResponse, len(messages))
	for i, msg := range messages {
		res[i] = messageToResponse(msg)
	}
	return res, nil
}

func (s *chatService) Messages(ctx context.Context, sessionID, userID string, limit int) ([]entity.ChatMessage, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedSession(ctx, userID, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Newest window first, then flipped back to chronological order.
	specs := []specification.Specification{
		specification.ByChatSessionID{ChatSessionID: id},
		specification.OrderBy{Field: "timestamp", Desc: true},
	}
	if limit > 0 {
		specs = append(specs, specification.Limit{N: limit})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]entity.ChatMessage, len(messages))
	for i, msg := range messages {
		out[len(messages)-1-i] = *msg
	}
	return out, nil
}

func (s *chatService) ownedSession(ctx context.Context, uid string, id uuid.UUID) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.UserId != uid {
		return nil, ErrAccessDenied
	}
	return session, nil
}

func sessionToResponse(session *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:             session.Id,
		UserId:         session.UserId,
		Title:          session.Title,
		Summary:        session.Summary,
		CreatedAt:      session.CreatedAt.Format(time.RFC3339),
		LastActivityAt: session.LastActivityAt.Format(time.RFC3339),
	}
}

func messageToResponse(msg *entity.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        msg.Id,
		Text:      msg.Text,
		Sender:    msg.Sender,
		SessionId: msg.SessionId,
		UserId:    msg.UserId,
		Timestamp: msg.Timestamp.Format(time.RFC3339),
		IsError:   msg.IsError,
		Metadata:  msg.Metadata,
	}
}

func truncateTitle(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= sessionTitleMaxLen {
		return text
	}
	return strings.TrimSpace(text[:sessionTitleMaxLen]) + "..."
}
