package reply

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanned(t *testing.T) {
	r, err := dates.Parse("2025-11-20 to 2025-11-22")
	require.NoError(t, err)

	got := Planned(concierge.TripParameters{Location: "Miami", Dates: r, PartyType: "family"})
	assert.Equal(t, "I built a family itinerary for Miami (2025-11-20 to 2025-11-22). Want to see the plan?", got)
}

func TestMissingFields(t *testing.T) {
	both := MissingFields([]string{"destination", "travel dates"})
	assert.True(t, strings.HasPrefix(both, "Almost there, please share your destination and travel dates."))
	assert.Contains(t, both, `"Miami"`)
	assert.Contains(t, both, `"2025-11-20 to 2025-11-22"`)

	datesOnly := MissingFields([]string{"travel dates"})
	assert.Contains(t, datesOnly, "share your travel dates.")
	assert.NotContains(t, datesOnly, `"Miami"`)
}

func TestPlanningFailed_TruncatesDetail(t *testing.T) {
	long := errors.New(strings.Repeat("x", 300))
	got := PlanningFailed(concierge.TripParameters{Location: "Oslo"}, long)

	assert.Contains(t, got, "Oslo")
	assert.Contains(t, got, strings.Repeat("x", maxErrorDetail)+"...")
	assert.NotContains(t, got, strings.Repeat("x", maxErrorDetail+1))
}

func TestPlanningFailed_TruncatesOnRuneBoundary(t *testing.T) {
	long := errors.New(strings.Repeat("é", 300))
	got := PlanningFailed(concierge.TripParameters{Location: "Zürich"}, long)

	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, strings.Repeat("é", maxErrorDetail)+"...")
	assert.NotContains(t, got, strings.Repeat("é", maxErrorDetail+1))
}

func TestBookingSuggestion(t *testing.T) {
	got := BookingSuggestion(concierge.BookingContext{Location: "Miami"}, "2025-11-20 to 2025-11-22")
	assert.Contains(t, got, "Miami (2025-11-20 to 2025-11-22)")

	assert.Contains(t, BookingSuggestion(concierge.BookingContext{Location: "Miami"}, ""), "dates to be confirmed")
}
