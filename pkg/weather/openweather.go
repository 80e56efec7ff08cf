package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultEndpoint = "https://api.openweathermap.org/data/2.5/forecast"

	// The free forecast covers five days ahead.
	forecastHorizonDays = 5

	conditionTooFarOut  = "Forecast available 5 days before trip"
	conditionNotYet     = "Forecast not available yet"
	temperatureUnknown  = "N/A"
	temperatureTemplate = "%.1f°C"
)

// Provider returns a per-day summary for the days of r the forecast covers.
type Provider interface {
	Forecast(ctx context.Context, location string, r dates.Range) (concierge.WeatherInfo, error)
}

type OpenWeatherClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	now      func() time.Time
}

var _ Provider = &OpenWeatherClient{}

func NewOpenWeatherClient(apiKey, endpoint string, timeout time.Duration) *OpenWeatherClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &OpenWeatherClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

// WithClock replaces the clock used to decide whether the trip is inside the
// forecast horizon.
func (c *OpenWeatherClient) WithClock(now func() time.Time) *OpenWeatherClient {
	c.now = now
	return c
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"` // seconds east of UTC
	} `json:"city"`
}

func (c *OpenWeatherClient) Forecast(ctx context.Context, location string, r dates.Range) (concierge.WeatherInfo, error) {
	empty := concierge.WeatherInfo{Location: location, Forecast: []concierge.ForecastEntry{}}
	if c.apiKey == "" {
		return empty, nil
	}
	if r.IsZero() {
		return empty, fmt.Errorf("weather: empty date range")
	}

	start := r.Start.Format(dates.DayLayout)
	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if r.Start.Sub(today) > forecastHorizonDays*24*time.Hour {
		return concierge.WeatherInfo{Location: location, Forecast: []concierge.ForecastEntry{
			{Date: start, Temp: temperatureUnknown, Condition: conditionTooFarOut},
		}}, nil
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return empty, fmt.Errorf("create weather request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return empty, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return empty, fmt.Errorf("weather error: status %d, body: %s", resp.StatusCode, string(msg))
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return empty, fmt.Errorf("decode weather response: %w", err)
	}

	forecast := c.summarize(decoded, r)
	if len(forecast) == 0 {
		forecast = []concierge.ForecastEntry{{Date: start, Temp: temperatureUnknown, Condition: conditionNotYet}}
	}
	return concierge.WeatherInfo{Location: location, Forecast: forecast}, nil
}

type daySummary struct {
	temps      []float64
	conditions map[string]int
	order      []string
}

// summarize groups three-hourly entries by the city's local calendar day.
func (c *OpenWeatherClient) summarize(resp forecastResponse, r dates.Range) []concierge.ForecastEntry {
	offset := time.Duration(resp.City.Timezone) * time.Second
	first := r.Start.Format(dates.DayLayout)
	last := r.End.Format(dates.DayLayout)

	days := map[string]*daySummary{}
	for _, entry := range resp.List {
		day := time.Unix(entry.Dt, 0).UTC().Add(offset).Format(dates.DayLayout)
		if day < first || day > last {
			continue
		}
		s, ok := days[day]
		if !ok {
			s = &daySummary{conditions: map[string]int{}}
			days[day] = s
		}
		s.temps = append(s.temps, entry.Main.Temp)
		if len(entry.Weather) > 0 {
			cond := strings.ToLower(strings.TrimSpace(entry.Weather[0].Description))
			if _, seen := s.conditions[cond]; !seen {
				s.order = append(s.order, cond)
			}
			s.conditions[cond]++
		}
	}

	// A Caser is stateful, one per call.
	title := cases.Title(language.English)
	out := make([]concierge.ForecastEntry, 0, len(days))
	for day, s := range days {
		var total float64
		for _, t := range s.temps {
			total += t
		}
		out = append(out, concierge.ForecastEntry{
			Date:      day,
			Temp:      fmt.Sprintf(temperatureTemplate, total/float64(len(s.temps))),
			Condition: title.String(dominant(s)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// dominant picks the most frequent condition, earliest seen on ties.
func dominant(s *daySummary) string {
	best, bestCount := "", 0
	for _, cond := range s.order {
		if n := s.conditions[cond]; n > bestCount {
			best, bestCount = cond, n
		}
	}
	return best
}
