package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	at   time.Time
	temp float64
	desc string
}

func forecastServer(t *testing.T, timezone int, entries []entry) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "Lisbon", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		list := make([]map[string]interface{}, 0, len(entries))
		for _, e := range entries {
			list = append(list, map[string]interface{}{
				"dt":      e.at.Unix(),
				"main":    map[string]float64{"temp": e.temp},
				"weather": []map[string]string{{"description": e.desc}},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"list": list,
			"city": map[string]int{"timezone": timezone},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func clock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 9, 0, 0, 0, time.UTC) }
}

func mustRange(t *testing.T, s string) dates.Range {
	t.Helper()
	r, err := dates.Parse(s)
	require.NoError(t, err)
	return r
}

func TestForecast_GroupsByLocalDay(t *testing.T) {
	utc := func(d, h int) time.Time { return time.Date(2025, time.November, d, h, 0, 0, 0, time.UTC) }
	srv, _ := forecastServer(t, 3600, []entry{
		{utc(19, 12), 30, "clear sky"},  // before the trip
		{utc(19, 23), 14, "light rain"}, // 00:00 local on the 20th
		{utc(20, 12), 18, "light rain"},
		{utc(20, 18), 16, "overcast clouds"},
		{utc(21, 12), 20, "clear sky"},
		{utc(23, 12), 25, "clear sky"}, // after the trip
	})

	c := NewOpenWeatherClient("key", srv.URL, time.Second).WithClock(clock(2025, time.November, 18))
	info, err := c.Forecast(context.Background(), "Lisbon", mustRange(t, "2025-11-20 to 2025-11-21"))
	require.NoError(t, err)

	assert.Equal(t, "Lisbon", info.Location)
	assert.Equal(t, []concierge.ForecastEntry{
		{Date: "2025-11-20", Temp: "16.0°C", Condition: "Light Rain"},
		{Date: "2025-11-21", Temp: "20.0°C", Condition: "Clear Sky"},
	}, info.Forecast)
}

func TestForecast_Placeholders(t *testing.T) {
	t.Run("trip beyond the horizon", func(t *testing.T) {
		c := NewOpenWeatherClient("key", "http://127.0.0.1:1", time.Second).WithClock(clock(2025, time.November, 1))
		info, err := c.Forecast(context.Background(), "Lisbon", mustRange(t, "2025-11-20 to 2025-11-21"))
		require.NoError(t, err)
		require.Len(t, info.Forecast, 1)
		assert.Equal(t, concierge.ForecastEntry{Date: "2025-11-20", Temp: "N/A", Condition: "Forecast available 5 days before trip"}, info.Forecast[0])
	})

	t.Run("forecast does not reach the trip", func(t *testing.T) {
		srv, _ := forecastServer(t, 0, []entry{{time.Date(2025, time.November, 18, 12, 0, 0, 0, time.UTC), 10, "mist"}})
		c := NewOpenWeatherClient("key", srv.URL, time.Second).WithClock(clock(2025, time.November, 17))
		info, err := c.Forecast(context.Background(), "Lisbon", mustRange(t, "2025-11-20 to 2025-11-21"))
		require.NoError(t, err)
		require.Len(t, info.Forecast, 1)
		assert.Equal(t, "Forecast not available yet", info.Forecast[0].Condition)
	})

	t.Run("no api key", func(t *testing.T) {
		info, err := NewOpenWeatherClient("", "", time.Second).Forecast(context.Background(), "Lisbon", mustRange(t, "2025-11-20 to 2025-11-21"))
		require.NoError(t, err)
		assert.Equal(t, "Lisbon", info.Location)
		assert.Empty(t, info.Forecast)
		assert.NotNil(t, info.Forecast)
	})
}

func TestForecast_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOpenWeatherClient("key", srv.URL, time.Second).WithClock(clock(2025, time.November, 18))
	info, err := c.Forecast(context.Background(), "Atlantis", mustRange(t, "2025-11-20 to 2025-11-21"))
	assert.ErrorContains(t, err, "status 404")
	assert.Empty(t, info.Forecast)
}

func TestCachedProvider_ReusesForecast(t *testing.T) {
	srv, calls := forecastServer(t, 0, []entry{{time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC), 21, "clear sky"}})
	c := NewCachedProvider(
		NewOpenWeatherClient("key", srv.URL, time.Second).WithClock(clock(2025, time.November, 18)),
		time.Minute,
	)
	r := mustRange(t, "2025-11-20 to 2025-11-21")

	first, err := c.Forecast(context.Background(), "Lisbon", r)
	require.NoError(t, err)
	second, err := c.Forecast(context.Background(), "Lisbon", r)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
