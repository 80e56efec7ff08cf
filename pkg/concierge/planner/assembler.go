// Package planner builds an itinerary from web search results and a weather
// forecast. Every provider call may fail on its own; a failure empties that
// part of the itinerary and never aborts the plan.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"
	"travel-concierge-be/pkg/search"
	"travel-concierge-be/pkg/weather"

	"github.com/samber/lo"
)

const logModule = "PLANNER"

// ErrPlanning is returned when no itinerary can be built at all.
var ErrPlanning = errors.New("itinerary planning failed")

// SlotsPerDay is morning, afternoon and evening.
const SlotsPerDay = 3

type Request struct {
	Location    string
	Dates       dates.Range
	PartyType   string
	Preferences concierge.Preferences
}

type Assembler struct {
	search  search.Provider
	weather weather.Provider
	logger  logger.ILogger
}

func NewAssembler(searchProvider search.Provider, weatherProvider weather.Provider, log logger.ILogger) *Assembler {
	return &Assembler{
		search:  searchProvider,
		weather: weatherProvider,
		logger:  log,
	}
}

// Assemble fetches activities, restaurants, events and weather concurrently
// and distributes activities over the days of the range.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*concierge.Itinerary, error) {
	if req.Location == "" {
		return nil, fmt.Errorf("%w: no destination", ErrPlanning)
	}
	if req.Dates.IsZero() || req.Dates.End.Before(req.Dates.Start) {
		return nil, fmt.Errorf("%w: invalid date range %q", ErrPlanning, req.Dates.String())
	}
	if req.PartyType == "" {
		req.PartyType = concierge.DefaultPartyType
	}
	prefs := req.Preferences.WithDefaults()

	var (
		wg          sync.WaitGroup
		activities  []search.Result
		restaurants []search.Result
		events      []search.Result
		forecast    concierge.WeatherInfo
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		activities = a.fetch(ctx, "activities", activityQuery(req.Location, req.PartyType, prefs), activityResults)
	}()
	go func() {
		defer wg.Done()
		restaurants = a.fetch(ctx, "restaurants", restaurantQuery(req.Location, req.PartyType, prefs), restaurantResults)
	}()
	go func() {
		defer wg.Done()
		events = a.fetch(ctx, "events", eventQuery(req.Location, req.Dates), eventResults)
	}()
	go func() {
		defer wg.Done()
		forecast = a.forecast(ctx, req.Location, req.Dates)
	}()
	wg.Wait()

	cards := activityCards(activities, prefs)
	itinerary := &concierge.Itinerary{
		DayByDayPlan:              dayPlans(req.Dates, cards),
		ActivityCards:             cards,
		RestaurantRecommendations: restaurantRecommendations(restaurants, prefs),
		PackingChecklist:          packingChecklist(forecast, prefs),
		WeatherInfo:               forecast,
		LocalEvents:               localEvents(events, req.Location),
	}

	a.logger.Info(logModule, "Itinerary assembled", map[string]interface{}{
		"location":    req.Location,
		"dates":       req.Dates.String(),
		"days":        len(itinerary.DayByDayPlan),
		"activities":  len(cards),
		"restaurants": len(itinerary.RestaurantRecommendations),
		"events":      len(itinerary.LocalEvents),
	})
	return itinerary, nil
}

func (a *Assembler) fetch(ctx context.Context, category, query string, limit int) []search.Result {
	results, err := a.search.Search(ctx, query, limit)
	if err != nil {
		a.logger.Warn(logModule, "Search failed, continuing without results", map[string]interface{}{
			"category": category,
			"query":    query,
			"error":    err.Error(),
		})
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (a *Assembler) forecast(ctx context.Context, location string, r dates.Range) concierge.WeatherInfo {
	info, err := a.weather.Forecast(ctx, location, r)
	if err != nil {
		a.logger.Warn(logModule, "Weather lookup failed, continuing without forecast", map[string]interface{}{
			"location": location,
			"error":    err.Error(),
		})
		return concierge.WeatherInfo{Location: location, Forecast: []concierge.ForecastEntry{}}
	}
	if info.Location == "" {
		info.Location = location
	}
	if info.Forecast == nil {
		info.Forecast = []concierge.ForecastEntry{}
	}
	return info
}

// dayPlans gives day i the cards at pool offsets 3i, 3i+1 and 3i+2, wrapping
// around when the pool runs out. An empty pool leaves every slot empty.
func dayPlans(r dates.Range, pool []concierge.ActivityCard) []concierge.DayPlan {
	plans := make([]concierge.DayPlan, 0, r.Len())
	for i, day := range r.Days() {
		slots := make([][]concierge.ActivityCard, SlotsPerDay)
		for k := range slots {
			slots[k] = []concierge.ActivityCard{}
			if len(pool) > 0 {
				slots[k] = append(slots[k], pool[(SlotsPerDay*i+k)%len(pool)])
			}
		}
		plans = append(plans, concierge.DayPlan{
			Date:      day.Format(dates.DayLayout),
			Morning:   slots[0],
			Afternoon: slots[1],
			Evening:   slots[2],
		})
	}
	return plans
}

func activityCards(results []search.Result, prefs concierge.Preferences) []concierge.ActivityCard {
	tags := prefs.Interests
	if len(tags) == 0 {
		tags = []string{"outdoor", "family"}
	}
	return lo.Map(results, func(r search.Result, _ int) concierge.ActivityCard {
		return concierge.ActivityCard{
			Title:              orDefault(r.Title, "Unknown Activity"),
			Address:            r.URL,
			Duration:           "2-3 hours",
			Tags:               append([]string{}, tags...),
			WheelchairFriendly: prefs.NeedsWheelchairAccess(),
			ChildFriendly:      prefs.TravelsWithChildren(),
		}
	})
}

func restaurantRecommendations(results []search.Result, prefs concierge.Preferences) []concierge.RestaurantRecommendation {
	return lo.Map(results, func(r search.Result, _ int) concierge.RestaurantRecommendation {
		return concierge.RestaurantRecommendation{
			Name:                  orDefault(r.Title, "Unknown Restaurant"),
			Address:               r.URL,
			CuisineType:           "Various",
			PriceTier:             "$$",
			DietaryAccommodations: append([]string{}, prefs.DietaryFilters...),
			Rating:                4.0,
		}
	})
}

func localEvents(results []search.Result, location string) []concierge.LocalEvent {
	return lo.Map(results, func(r search.Result, _ int) concierge.LocalEvent {
		return concierge.LocalEvent{
			Name:        r.Title,
			URL:         r.URL,
			Description: r.Snippet,
			Location:    location,
		}
	})
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
