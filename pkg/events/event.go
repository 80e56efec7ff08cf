package events

import (
	"fmt"
	"strings"
	"time"
)

const (
	// SubjectPrefix is prepended to the event type to form the NATS subject.
	SubjectPrefix = "events."

	ItineraryGenerated   = "ITINERARY_GENERATED"
	BookingStatusUpdated = "BOOKING_STATUS_UPDATED"
)

// Event defines the contract for all events the concierge emits or consumes.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ITINERARY_GENERATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject is the NATS subject an event of this type travels on.
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// TypeFromSubject reverses Subject.
func TypeFromSubject(subject string) string {
	return strings.TrimPrefix(subject, SubjectPrefix)
}

// NewItineraryGenerated is emitted after an itinerary was handed to a traveler.
func NewItineraryGenerated(travelerID, location, dates, partyType string, days int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: ItineraryGenerated,
		Data: map[string]interface{}{
			"traveler_id": travelerID,
			"location":    location,
			"dates":       dates,
			"party_type":  partyType,
			"days":        days,
			"occurred_at": at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

// TravelerID reads the traveler id from a payload. The booking service sends
// camelCase keys, the concierge uses snake_case.
func TravelerID(e Event) string {
	data := e.Payload()
	for _, key := range []string{"traveler_id", "travelerId", "traveler"} {
		if v, ok := data[key]; ok && v != nil {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return ""
}
