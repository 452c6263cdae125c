// Package message constructs the conversation messages the pipeline
// emits and persists.
package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
)

// NewUser builds the stored form of an incoming user query.
func NewUser(text string, sessionID uuid.UUID, userID string) entity.ChatMessage {
	return entity.ChatMessage{
		Id:        uuid.New(),
		Text:      text,
		Sender:    constant.SenderUser,
		SessionId: sessionID,
		UserId:    userID,
		Timestamp: time.Now().UTC(),
	}
}

// NewBot builds an assistant reply. The metadata map must carry the
// intent that produced the reply; callers own that invariant.
func NewBot(text string, sessionID uuid.UUID, userID string, metadata map[string]interface{}) entity.ChatMessage {
	return entity.ChatMessage{
		Id:        uuid.New(),
		Text:      text,
		Sender:    constant.SenderBot,
		SessionId: sessionID,
		UserId:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}

// NewRejection builds the fixed redirect reply for non-medical queries.
func NewRejection(sessionID uuid.UUID, userID string, elapsed time.Duration) entity.ChatMessage {
	return NewBot(constant.MsgRejection, sessionID, userID, map[string]interface{}{
		"intent":                  "non_medical_query",
		"rejected":                true,
		"processing_time_seconds": elapsed.Seconds(),
	})
}

// NewError builds the generic failure reply. The underlying error text
// goes to metadata only, never into the user-facing message.
func NewError(sessionID uuid.UUID, userID string, cause error) entity.ChatMessage {
	md := map[string]interface{}{
		"intent":   "error",
		"is_error": true,
	}
	if cause != nil {
		md["error"] = cause.Error()
	}
	msg := NewBot(constant.MsgTechnicalDifficulty, sessionID, userID, md)
	msg.IsError = true
	return msg
}
