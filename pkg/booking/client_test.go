package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []Booking{
	{ID: "b1", TravelerID: "t1", Location: "Orlando", StartDate: "2025-06-01T00:00:00.000Z", EndDate: "2025-06-04T00:00:00.000Z", Status: StatusAccepted},
	{ID: "b2", TravelerID: "t1", Location: "Miami", StartDate: "2025-11-20T00:00:00.000Z", EndDate: "2025-11-22T00:00:00.000Z", Status: StatusPending},
	{ID: "b3", TravelerID: "t1", Location: "Denver", StartDate: "2025-12-20T00:00:00.000Z", EndDate: "2025-12-22T00:00:00.000Z", Status: StatusCancelled},
}

func bookingServer(t *testing.T, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/traveler", r.URL.Path)
		if check != nil {
			check(r)
		}
		_ = json.NewEncoder(w).Encode(sample)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ForwardsAuthorization(t *testing.T) {
	srv := bookingServer(t, func(r *http.Request) {
		assert.Equal(t, "Bearer caller-token", r.Header.Get("Authorization"))
	})

	c := NewClient(srv.URL+"/", time.Second, "", logger.NewNopLogger())
	got := c.FetchBookings(context.Background(), "t1", "Bearer caller-token")
	assert.Len(t, got, 3)
}

func TestClient_SignsServiceToken(t *testing.T) {
	const secret = "shared-secret"
	srv := bookingServer(t, func(r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "t1", claims["id"])
		assert.Equal(t, "traveler", claims["role"])
	})

	c := NewClient(srv.URL, time.Second, secret, logger.NewNopLogger())
	assert.Len(t, c.FetchBookings(context.Background(), "t1", ""), 3)
}

func TestClient_FailuresYieldEmptyList(t *testing.T) {
	t.Run("no credentials at all", func(t *testing.T) {
		srv := bookingServer(t, func(r *http.Request) {
			t.Error("request must not be sent")
		})
		c := NewClient(srv.URL, time.Second, "", logger.NewNopLogger())
		got := c.FetchBookings(context.Background(), "t1", "")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		c := NewClient(srv.URL, time.Second, "", logger.NewNopLogger())
		assert.Empty(t, c.FetchBookings(context.Background(), "t1", "Bearer expired"))
	})

	t.Run("unreachable", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", 100*time.Millisecond, "", logger.NewNopLogger())
		assert.Empty(t, c.FetchBookings(context.Background(), "t1", "Bearer x"))
	})
}

func TestLatestActive(t *testing.T) {
	b, ok := LatestActive(sample)
	require.True(t, ok)
	assert.Equal(t, "Miami", b.Location)

	ctx := b.Context()
	assert.Equal(t, "Miami", ctx.Location)
	assert.Equal(t, []interface{}{"2025-11-20T00:00:00.000Z", "2025-11-22T00:00:00.000Z"}, ctx.DateSource())

	_, ok = LatestActive([]Booking{{Location: "Paris", Status: "cancelled"}, {Status: StatusAccepted}})
	assert.False(t, ok)
}

type stubProvider struct {
	calls int
}

func (s *stubProvider) FetchBookings(ctx context.Context, travelerID, authorization string) []Booking {
	s.calls++
	return sample
}

func TestCachedProvider_Invalidate(t *testing.T) {
	next := &stubProvider{}
	c := NewCachedProvider(next, time.Minute)

	c.FetchBookings(context.Background(), "t1", "")
	c.FetchBookings(context.Background(), "t1", "")
	assert.Equal(t, 1, next.calls)

	c.Invalidate("t1")
	c.FetchBookings(context.Background(), "t1", "")
	assert.Equal(t, 2, next.calls)
}

func TestCachedProvider_HandleStatusUpdate(t *testing.T) {
	next := &stubProvider{}
	c := NewCachedProvider(next, time.Minute)
	c.FetchBookings(context.Background(), "t1", "")

	ignored := events.BaseEvent{Type: events.BookingStatusUpdated, Data: map[string]interface{}{"status": "accepted"}}
	require.NoError(t, c.HandleStatusUpdate(context.Background(), ignored))
	c.FetchBookings(context.Background(), "t1", "")
	assert.Equal(t, 1, next.calls)

	update := events.BaseEvent{Type: events.BookingStatusUpdated, Data: map[string]interface{}{"travelerId": "t1", "status": "cancelled"}}
	require.NoError(t, c.HandleStatusUpdate(context.Background(), update))
	c.FetchBookings(context.Background(), "t1", "")
	assert.Equal(t, 2, next.calls)
}
