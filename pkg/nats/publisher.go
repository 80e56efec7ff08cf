package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher handles sending events to the NATS bus.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger logger.ILogger
}

func NewPublisher(nc *nats.Conn, log logger.ILogger) (*Publisher, error) {
	js, err := newJetStream(nc, log)
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc, js: js, logger: log}, nil
}

// Publish sends the event payload as JSON on events.<TYPE>.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := events.Subject(event.EventType())
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}

	p.logger.Debug(logModule, "Event published", map[string]interface{}{
		"subject": subject,
	})
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
