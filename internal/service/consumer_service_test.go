package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"travel-concierge-be/internal/dto"
	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRelay struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingRelay) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingRelay) received() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

func TestConsumerService_RelaysPublishedEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	relay := &recordingRelay{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, "test.topic", relay, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("test.topic", pubSub)

	require.NoError(t, publisher.Publish(ctx, []byte("not json")))

	at := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	event := events.NewItineraryGenerated("t1", "Miami", "2025-11-20 to 2025-11-22", "family", 3, at)
	payload, err := json.Marshal(dto.EventMessage{Type: event.EventType(), Data: event.Payload(), OccurredAt: event.Timestamp()})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	assert.Eventually(t, func() bool { return len(relay.received()) == 1 }, 2*time.Second, 10*time.Millisecond)

	got := relay.received()[0]
	assert.Equal(t, events.ItineraryGenerated, got.EventType())
	assert.Equal(t, "t1", events.TravelerID(got))
	assert.True(t, at.Equal(got.Timestamp()))
}
