package weather

import (
	"context"
	"time"

	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"

	"github.com/patrickmn/go-cache"
)

// CachedProvider keeps successful forecasts in process memory.
type CachedProvider struct {
	next  Provider
	cache *cache.Cache
}

var _ Provider = &CachedProvider{}

func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedProvider) Forecast(ctx context.Context, location string, r dates.Range) (concierge.WeatherInfo, error) {
	key := location + "|" + r.String()
	if x, found := c.cache.Get(key); found {
		return x.(concierge.WeatherInfo), nil
	}

	info, err := c.next.Forecast(ctx, location, r)
	if err != nil {
		return info, err
	}
	if len(info.Forecast) > 0 {
		c.cache.Set(key, info, cache.DefaultExpiration)
	}
	return info, nil
}
