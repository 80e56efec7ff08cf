package memory

import (
	"context"
	"sync"
	"time"

	"travel-concierge-be/internal/entity"
	"travel-concierge-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ConversationRepository keeps conversations in process memory. Idle
// conversations expire after ttl.
type ConversationRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

func NewConversationRepository(ttl time.Duration) contract.ConversationRepository {
	return &ConversationRepository{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (r *ConversationRepository) Append(ctx context.Context, turn *entity.ConversationTurn) error {
	if turn.Id == uuid.Nil {
		turn.Id = uuid.New()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var turns []*entity.ConversationTurn
	if x, found := r.cache.Get(turn.TravelerId); found {
		turns = x.([]*entity.ConversationTurn)
	}
	stored := *turn
	// copy on write so slices handed to readers never change underneath them
	next := make([]*entity.ConversationTurn, len(turns), len(turns)+1)
	copy(next, turns)
	r.cache.Set(turn.TravelerId, append(next, &stored), cache.DefaultExpiration)
	return nil
}

func (r *ConversationRepository) FindRecent(ctx context.Context, travelerId string, limit int) ([]*entity.ConversationTurn, error) {
	r.mu.Lock()
	x, found := r.cache.Get(travelerId)
	r.mu.Unlock()
	if !found {
		return []*entity.ConversationTurn{}, nil
	}

	turns := x.([]*entity.ConversationTurn)
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]*entity.ConversationTurn, len(turns))
	for i, t := range turns {
		c := *t
		out[i] = &c
	}
	return out, nil
}

func (r *ConversationRepository) DeleteByTravelerId(ctx context.Context, travelerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(travelerId)
	return nil
}
