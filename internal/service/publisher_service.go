package service

import (
	"encoding/json"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/dto"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	// Persist satisfies the orchestrator's persister. Best-effort: a publish
	// failure is logged and swallowed, the client already has the response.
	Persist(msg entity.ChatMessage)
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (p *publisherService) Persist(msg entity.ChatMessage) {
	payload := dto.PersistMessagePayload{
		Id:        msg.Id,
		Text:      msg.Text,
		Sender:    msg.Sender,
		SessionId: msg.SessionId,
		UserId:    msg.UserId,
		Timestamp: msg.Timestamp.UTC().Format(time.RFC3339Nano),
		IsError:   msg.IsError,
		Metadata:  msg.Metadata,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Publisher", "Failed to marshal persist payload", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.Id.String(),
		})
		return
	}

	wmMsg := message.NewMessage(watermill.NewUUID(), data)
	if err := p.publisher.Publish(p.topicName, wmMsg); err != nil {
		p.logger.Error("Publisher", "Failed to publish persist event", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.Id.String(),
		})
	}
}
