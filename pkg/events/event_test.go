package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubjectRoundTrip(t *testing.T) {
	assert.Equal(t, "events.ITINERARY_GENERATED", Subject(ItineraryGenerated))
	assert.Equal(t, BookingStatusUpdated, TypeFromSubject("events.BOOKING_STATUS_UPDATED"))
}

func TestNewItineraryGenerated(t *testing.T) {
	at := time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC)
	e := NewItineraryGenerated("t1", "Miami", "2025-11-20 to 2025-11-22", "couple", 3, at)

	assert.Equal(t, ItineraryGenerated, e.EventType())
	assert.Equal(t, at, e.Timestamp())
	assert.Equal(t, 3, e.Payload()["days"])
	assert.Equal(t, "t1", TravelerID(e))
}

func TestTravelerID(t *testing.T) {
	camel := BaseEvent{Data: map[string]interface{}{"travelerId": "abc", "status": "cancelled"}}
	assert.Equal(t, "abc", TravelerID(camel))

	assert.Equal(t, "", TravelerID(BaseEvent{Data: map[string]interface{}{"status": "accepted"}}))
}
