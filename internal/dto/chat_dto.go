package dto

import (
	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	UserId string `json:"userId" validate:"required"`
	Title  string `json:"title"`
}

type CreateSessionResponse struct {
	Id             uuid.UUID `json:"id"`
	UserId         string    `json:"userId"`
	Title          string    `json:"title"`
	CreatedAt      string    `json:"createdAt"`
	LastActivityAt string    `json:"lastActivityAt"`
}

type SessionResponse struct {
	Id             uuid.UUID `json:"id"`
	UserId         string    `json:"userId"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary,omitempty"`
	CreatedAt      string    `json:"createdAt"`
	LastActivityAt string    `json:"lastActivityAt"`
}

type UpdateSessionRequest struct {
	Id      uuid.UUID
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type SendMessageRequest struct {
	Text      string    `json:"text" validate:"required"`
	SessionId uuid.UUID `json:"sessionId" validate:"required"`
	UserId    string    `json:"userId" validate:"required"`
}

type MessageResponse struct {
	Id        uuid.UUID              `json:"id"`
	Text      string                 `json:"text"`
	Sender    string                 `json:"sender"`
	SessionId uuid.UUID              `json:"sessionId"`
	UserId    string                 `json:"userId"`
	Timestamp string                 `json:"timestamp"`
	IsError   bool                   `json:"isError,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// PersistMessagePayload is the event published for every message that must
// reach the store. The consumer writes it through the conversation service.
type PersistMessagePayload struct {
	Id        uuid.UUID              `json:"id"`
	Text      string                 `json:"text"`
	Sender    string                 `json:"sender"`
	SessionId uuid.UUID              `json:"session_id"`
	UserId    string                 `json:"user_id"`
	Timestamp string                 `json:"timestamp"`
	IsError   bool                   `json:"is_error"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
