package contract

import (
	"context"

	"travel-concierge-be/internal/entity"
)

// ConversationRepository is the append-only per-traveler chat log.
// Implementations serialize appends for the same traveler.
type ConversationRepository interface {
	Append(ctx context.Context, turn *entity.ConversationTurn) error
	// FindRecent returns up to limit of the newest turns, oldest first.
	// A limit of zero or less returns the whole history.
	FindRecent(ctx context.Context, travelerId string, limit int) ([]*entity.ConversationTurn, error)
	DeleteByTravelerId(ctx context.Context, travelerId string) error
}
