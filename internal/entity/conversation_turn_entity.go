package entity

import (
	"time"

	"travel-concierge-be/pkg/concierge"

	"github.com/google/uuid"
)

type ConversationTurn struct {
	Id         uuid.UUID
	TravelerId string
	Role       string
	Content    string
	Itinerary  *concierge.Itinerary
	CreatedAt  time.Time
}

// Turn is the view the extractor reads history through.
func (t *ConversationTurn) Turn() concierge.Turn {
	return concierge.Turn{Role: t.Role, Content: t.Content, Timestamp: t.CreatedAt}
}
