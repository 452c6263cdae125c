package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of a conversation. Bot messages always carry
// the intent that produced them in Metadata["intent"].
type ChatMessage struct {
	Id        uuid.UUID
	Text      string
	Sender    string // constant.SenderUser | constant.SenderBot
	SessionId uuid.UUID
	UserId    string
	Timestamp time.Time
	IsError   bool
	Metadata  map[string]interface{}
}
