package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"
	"travel-concierge-be/pkg/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	mu      sync.Mutex
	queries map[string]int
	results map[string][]search.Result // keyed by query prefix
	fail    map[string]bool
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{
		queries: map[string]int{},
		results: map[string][]search.Result{},
		fail:    map[string]bool{},
	}
}

func (f *fakeSearch) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries[query] = maxResults
	for prefix, failing := range f.fail {
		if failing && strings.HasPrefix(query, prefix) {
			return nil, errors.New("search provider down")
		}
	}
	for prefix, results := range f.results {
		if strings.HasPrefix(query, prefix) {
			return results, nil
		}
	}
	return []search.Result{}, nil
}

type fakeWeather struct {
	info concierge.WeatherInfo
	err  error
}

func (f *fakeWeather) Forecast(ctx context.Context, location string, r dates.Range) (concierge.WeatherInfo, error) {
	return f.info, f.err
}

func hits(prefix string, n int) []search.Result {
	out := make([]search.Result, n)
	for i := range out {
		out[i] = search.Result{Title: fmt.Sprintf("%s %d", prefix, i), URL: fmt.Sprintf("https://example.com/%s/%d", prefix, i)}
	}
	return out
}

func mustRange(t *testing.T, s string) dates.Range {
	t.Helper()
	r, err := dates.Parse(s)
	require.NoError(t, err)
	return r
}

func slotTitles(plan concierge.DayPlan) []string {
	var titles []string
	for _, slot := range [][]concierge.ActivityCard{plan.Morning, plan.Afternoon, plan.Evening} {
		for _, card := range slot {
			titles = append(titles, card.Title)
		}
	}
	return titles
}

func TestAssemble_RoundRobinWithWraparound(t *testing.T) {
	s := newFakeSearch()
	s.results["Top tourist"] = hits("activity", 2)
	a := NewAssembler(s, &fakeWeather{}, logger.NewNopLogger())

	it, err := a.Assemble(context.Background(), Request{Location: "Miami", Dates: mustRange(t, "2025-11-20 to 2025-11-22")})
	require.NoError(t, err)

	require.Len(t, it.DayByDayPlan, 3)
	assert.Equal(t, "2025-11-20", it.DayByDayPlan[0].Date)
	assert.Equal(t, "2025-11-22", it.DayByDayPlan[2].Date)
	for _, day := range it.DayByDayPlan {
		assert.Len(t, day.Morning, 1)
		assert.Len(t, day.Afternoon, 1)
		assert.Len(t, day.Evening, 1)
	}
	assert.Equal(t, []string{"activity 0", "activity 1", "activity 0"}, slotTitles(it.DayByDayPlan[0]))
	assert.Equal(t, []string{"activity 1", "activity 0", "activity 1"}, slotTitles(it.DayByDayPlan[1]))
	assert.Len(t, it.ActivityCards, 2)
}

func TestAssemble_LargePoolAdvancesByThree(t *testing.T) {
	s := newFakeSearch()
	s.results["Top tourist"] = hits("a", 7)
	a := NewAssembler(s, &fakeWeather{}, logger.NewNopLogger())

	it, err := a.Assemble(context.Background(), Request{Location: "Rome", Dates: mustRange(t, "2025-05-01 to 2025-05-03")})
	require.NoError(t, err)

	assert.Equal(t, []string{"a 0", "a 1", "a 2"}, slotTitles(it.DayByDayPlan[0]))
	assert.Equal(t, []string{"a 3", "a 4", "a 5"}, slotTitles(it.DayByDayPlan[1]))
	assert.Equal(t, []string{"a 6", "a 0", "a 1"}, slotTitles(it.DayByDayPlan[2]))
}

func TestAssemble_EmptyPoolStillPlansEveryDay(t *testing.T) {
	a := NewAssembler(newFakeSearch(), &fakeWeather{}, logger.NewNopLogger())

	it, err := a.Assemble(context.Background(), Request{Location: "Oslo", Dates: mustRange(t, "2025-01-10 to 2025-01-12")})
	require.NoError(t, err)

	require.Len(t, it.DayByDayPlan, 3)
	for _, day := range it.DayByDayPlan {
		assert.NotNil(t, day.Morning)
		assert.Empty(t, day.Morning)
		assert.Empty(t, day.Afternoon)
		assert.Empty(t, day.Evening)
	}
	assert.NotNil(t, it.ActivityCards)
	assert.NotNil(t, it.LocalEvents)
}

func TestAssemble_ProviderFailuresDegrade(t *testing.T) {
	s := newFakeSearch()
	s.results["Top tourist"] = hits("activity", 3)
	s.results["events happening"] = hits("event", 2)
	s.fail["best "] = true
	w := &fakeWeather{err: errors.New("weather provider down")}
	a := NewAssembler(s, w, logger.NewNopLogger())

	it, err := a.Assemble(context.Background(), Request{Location: "Lima", Dates: mustRange(t, "2025-03-01 to 2025-03-02")})
	require.NoError(t, err)

	assert.Len(t, it.ActivityCards, 3)
	assert.Empty(t, it.RestaurantRecommendations)
	assert.Len(t, it.LocalEvents, 2)
	assert.Equal(t, "Lima", it.LocalEvents[0].Location)
	assert.Equal(t, "Lima", it.WeatherInfo.Location)
	assert.Empty(t, it.WeatherInfo.Forecast)
	assert.Len(t, it.PackingChecklist, len(basePacking))
}

func TestAssemble_QueriesAndPreferences(t *testing.T) {
	s := newFakeSearch()
	s.results["Top tourist"] = hits("activity", 1)
	s.results["best "] = hits("restaurant", 1)
	a := NewAssembler(s, &fakeWeather{}, logger.NewNopLogger())

	prefs := concierge.Preferences{
		DietaryFilters: []string{"vegan", "halal"},
		MobilityNeeds:  "Wheelchair user",
		Children:       2,
	}
	it, err := a.Assemble(context.Background(), Request{
		Location:    "Kyoto",
		Dates:       mustRange(t, "2025-04-01 to 2025-04-02"),
		PartyType:   "family",
		Preferences: prefs,
	})
	require.NoError(t, err)

	assert.Equal(t, activityResults, s.queries["Top tourist attractions and activities in Kyoto suitable for family wheelchair accessible with children"])
	assert.Equal(t, restaurantResults, s.queries["best vegan halal restaurants in Kyoto for family travelers with price range and ratings"])
	assert.Equal(t, eventResults, s.queries["events happening in Kyoto during 2025-04-01 to 2025-04-02"])

	card := it.ActivityCards[0]
	assert.True(t, card.WheelchairFriendly)
	assert.True(t, card.ChildFriendly)
	assert.Equal(t, []string{"outdoor", "family"}, card.Tags)
	assert.Equal(t, "2-3 hours", card.Duration)

	restaurant := it.RestaurantRecommendations[0]
	assert.Equal(t, []string{"vegan", "halal"}, restaurant.DietaryAccommodations)
	assert.Equal(t, "$$", restaurant.PriceTier)
	assert.Equal(t, 4.0, restaurant.Rating)

	assert.Contains(t, it.PackingChecklist, concierge.PackingItem{Item: "Snacks for kids", Category: "food"})
}

func TestAssemble_RejectsMissingInput(t *testing.T) {
	a := NewAssembler(newFakeSearch(), &fakeWeather{}, logger.NewNopLogger())

	_, err := a.Assemble(context.Background(), Request{Location: "Miami"})
	assert.ErrorIs(t, err, ErrPlanning)

	_, err = a.Assemble(context.Background(), Request{Dates: mustRange(t, "2025-11-20 to 2025-11-22")})
	assert.ErrorIs(t, err, ErrPlanning)
}

func TestPackingChecklist(t *testing.T) {
	rain := concierge.WeatherInfo{Forecast: []concierge.ForecastEntry{
		{Date: "2025-11-20", Temp: "21.0°C", Condition: "Clear"},
		{Date: "2025-11-21", Temp: "19.5°C", Condition: "Light Rain"},
	}}

	items := packingChecklist(rain, concierge.Preferences{})
	assert.Len(t, items, len(basePacking)+1)
	assert.Equal(t, "Umbrella", items[len(items)-1].Item)
	assert.True(t, items[len(items)-1].WeatherDependent)

	dry := concierge.WeatherInfo{Forecast: []concierge.ForecastEntry{{Condition: "Clouds"}}}
	assert.Len(t, packingChecklist(dry, concierge.Preferences{}), len(basePacking))

	// base list is never mutated
	assert.Len(t, basePacking, 4)
}
