package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id             uuid.UUID
	UserId         string
	Title          string
	Summary        string
	CreatedAt      time.Time
	LastActivityAt time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
