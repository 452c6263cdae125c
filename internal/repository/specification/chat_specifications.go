package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// ByUserID filters by the external auth uid that owns the row.
type ByUserID struct {
	UserID string
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// BySender filters chat messages by sender role.
type BySender struct {
	Sender string
}

func (s BySender) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sender = ?", s.Sender)
}
