package mapper

import (
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.ChatSession{
		Id:             s.Id,
		UserId:         s.UserId,
		Title:          s.Title,
		Summary:        s.Summary,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		DeletedAt:      deletedAt,
		IsDeleted:      s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.ChatSession{
		Id:             s.Id,
		UserId:         s.UserId,
		Title:          s.Title,
		Summary:        s.Summary,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		DeletedAt:      deletedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var metadata map[string]interface{}
	if msg.Metadata != nil {
		metadata = map[string]interface{}(msg.Metadata)
	}

	return &entity.ChatMessage{
		Id:        msg.Id,
		Text:      msg.Text,
		Sender:    msg.Sender,
		SessionId: msg.ChatSessionId,
		UserId:    msg.UserId,
		Timestamp: msg.Timestamp,
		IsError:   msg.IsError,
		Metadata:  metadata,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var metadata datatypes.JSONMap
	if msg.Metadata != nil {
		metadata = datatypes.JSONMap(msg.Metadata)
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		Text:          msg.Text,
		Sender:        msg.Sender,
		ChatSessionId: msg.SessionId,
		UserId:        msg.UserId,
		Timestamp:     msg.Timestamp,
		IsError:       msg.IsError,
		Metadata:      metadata,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(models []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(models))
	for i, msg := range models {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}
