package planner

import (
	"fmt"
	"strings"

	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"
)

const (
	activityResults   = 12
	restaurantResults = 6
	eventResults      = 5
)

func activityQuery(location, partyType string, prefs concierge.Preferences) string {
	query := fmt.Sprintf("Top tourist attractions and activities in %s suitable for %s", location, partyType)
	if prefs.NeedsWheelchairAccess() {
		query += " wheelchair accessible"
	}
	if prefs.TravelsWithChildren() {
		query += " with children"
	}
	return query
}

func restaurantQuery(location, partyType string, prefs concierge.Preferences) string {
	dietary := "restaurants"
	if len(prefs.DietaryFilters) > 0 {
		dietary = strings.Join(prefs.DietaryFilters, " ")
	}
	return fmt.Sprintf("best %s restaurants in %s for %s travelers with price range and ratings", dietary, location, partyType)
}

func eventQuery(location string, r dates.Range) string {
	return fmt.Sprintf("events happening in %s during %s", location, r)
}
