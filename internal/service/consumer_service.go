package service

import (
	"context"
	"encoding/json"

	"travel-concierge-be/internal/dto"
	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const eventsLogModule = "EVENTS"

// EventRelay forwards domain events off the process, usually to NATS.
type EventRelay interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	relay     EventRelay
	logger    logger.ILogger
}

// NewConsumerService drains the in-process topic. With a nil relay events are
// only logged.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	relay EventRelay,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		relay:     relay,
		logger:    log,
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

// processMessage always acks: a lost relay is not worth redelivering on an
// in-memory channel with no other consumer.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.EventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Warn(eventsLogModule, "Dropping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	event := events.BaseEvent{
		Type:       payload.Type,
		Data:       payload.Data,
		OccurredAt: payload.OccurredAt,
	}

	if cs.relay == nil {
		cs.logger.Info(eventsLogModule, "Event recorded", map[string]interface{}{
			"type":    event.Type,
			"payload": event.Data,
		})
		return
	}

	if err := cs.relay.Publish(ctx, event); err != nil {
		cs.logger.Error(eventsLogModule, "Failed to relay event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
		return
	}
	cs.logger.Info(eventsLogModule, "Event relayed", map[string]interface{}{
		"type":    event.Type,
		"subject": events.Subject(event.Type),
	})
}
