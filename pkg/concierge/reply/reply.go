// Package reply renders the assistant's text for each outcome of a chat turn.
package reply

import (
	"fmt"
	"strings"

	"travel-concierge-be/pkg/concierge"
)

const maxErrorDetail = 120

func Planned(params concierge.TripParameters) string {
	return fmt.Sprintf("I built a %s itinerary for %s (%s). Want to see the plan?",
		params.PartyType, params.Location, params.Dates)
}

// MissingFields asks for the unresolved fields with an example of each.
func MissingFields(missing []string) string {
	var b strings.Builder
	b.WriteString("Almost there, please share your ")
	b.WriteString(joinFields(missing))
	b.WriteString(".")

	examples := make([]string, 0, len(missing))
	for _, field := range missing {
		switch field {
		case "destination":
			examples = append(examples, `a city like "Miami"`)
		case "travel dates":
			examples = append(examples, `dates like "November 20 to 22" or "2025-11-20 to 2025-11-22"`)
		}
	}
	if len(examples) > 0 {
		b.WriteString(" For example ")
		b.WriteString(strings.Join(examples, ", and "))
		b.WriteString(".")
	}
	return b.String()
}

func Retry() string {
	return "Sorry, I couldn't reach the trip planner just now. Please send your message again in a moment."
}

// PlanningFailed names what was understood so the traveler does not have to
// repeat it.
func PlanningFailed(params concierge.TripParameters, err error) string {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	if runes := []rune(detail); len(runes) > maxErrorDetail {
		detail = string(runes[:maxErrorDetail]) + "..."
	}
	return fmt.Sprintf("Sorry, I couldn't finish the itinerary for %s (%s): %s. Please try again.",
		params.Location, params.Dates, detail)
}

// BookingSuggestion offers a trip found in the traveler's booking history.
func BookingSuggestion(booking concierge.BookingContext, dates string) string {
	when := dates
	if when == "" {
		when = "dates to be confirmed"
	}
	return fmt.Sprintf("I found your booking in %s (%s). Should I plan an itinerary for that trip? "+
		"Reply with the destination and dates to confirm, or share different details.", booking.Location, when)
}

func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return "trip details"
	case 1:
		return fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
	}
}
