package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Text          string            `gorm:"type:text;not null"`
	Sender        string            `gorm:"type:varchar(20);not null"`
	ChatSessionId uuid.UUID         `gorm:"type:uuid;not null;index:idx_chat_messages_session_ts,priority:1"`
	UserId        string            `gorm:"type:varchar(128);not null;index"`
	Timestamp     time.Time         `gorm:"not null;index:idx_chat_messages_session_ts,priority:2"`
	IsError       bool              `gorm:"default:false"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt     time.Time         `gorm:"autoCreateTime"`
	DeletedAt     gorm.DeletedAt    `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
