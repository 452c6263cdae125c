package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/dto"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	chatService IChatService
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chatService IChatService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		chatService: chatService,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PersistMessagePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal persist payload", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid, do not retry
		return
	}

	timestamp, err := time.Parse(time.RFC3339Nano, payload.Timestamp)
	if err != nil {
		timestamp = time.Now().UTC()
	}

	entry := &entity.ChatMessage{
		Id:        payload.Id,
		Text:      payload.Text,
		Sender:    payload.Sender,
		SessionId: payload.SessionId,
		UserId:    payload.UserId,
		Timestamp: timestamp,
		IsError:   payload.IsError,
		Metadata:  payload.Metadata,
	}

	if err := cs.chatService.CreateMessage(ctx, entry); err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrAccessDenied) {
			// Session deleted mid-flight or ownership mismatch. Ack, a retry
			// cannot succeed.
			cs.logger.Warn("Consumer", "Dropping message for missing session", map[string]interface{}{
				"message_id": payload.Id.String(),
				"session_id": payload.SessionId.String(),
			})
			msg.Ack()
			return
		}
		cs.logger.Error("Consumer", "Failed to persist message", map[string]interface{}{
			"error":      err.Error(),
			"message_id": payload.Id.String(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
