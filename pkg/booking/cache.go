package booking

import (
	"context"
	"time"

	"travel-concierge-be/pkg/events"

	"github.com/patrickmn/go-cache"
)

// CachedProvider remembers non-empty booking lists per traveler until they
// expire or a status update for that traveler evicts them.
type CachedProvider struct {
	next  Provider
	cache *cache.Cache
}

var _ Provider = &CachedProvider{}

func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 5*time.Minute),
	}
}

func (c *CachedProvider) FetchBookings(ctx context.Context, travelerID, authorization string) []Booking {
	if x, found := c.cache.Get(travelerID); found {
		return x.([]Booking)
	}
	bookings := c.next.FetchBookings(ctx, travelerID, authorization)
	if len(bookings) > 0 {
		c.cache.Set(travelerID, bookings, cache.DefaultExpiration)
	}
	return bookings
}

func (c *CachedProvider) Invalidate(travelerID string) {
	c.cache.Delete(travelerID)
}

// HandleStatusUpdate evicts the traveler named by a BOOKING_STATUS_UPDATED
// event. Events without a traveler id are ignored.
func (c *CachedProvider) HandleStatusUpdate(ctx context.Context, event events.Event) error {
	if travelerID := events.TravelerID(event); travelerID != "" {
		c.Invalidate(travelerID)
	}
	return nil
}
