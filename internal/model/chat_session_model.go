package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSession struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         string         `gorm:"type:varchar(128);not null;index"` // External auth uid, data isolation boundary
	Title          string         `gorm:"type:text;not null"`
	Summary        string         `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	LastActivityAt time.Time      `gorm:"not null;index"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
