package planner

import (
	"strings"

	"travel-concierge-be/pkg/concierge"

	"github.com/samber/lo"
)

var basePacking = []concierge.PackingItem{
	{Item: "Clothes", Category: "clothing", WeatherDependent: true},
	{Item: "Toiletries", Category: "personal"},
	{Item: "Phone charger", Category: "electronics"},
	{Item: "Travel documents", Category: "documents"},
}

func packingChecklist(weather concierge.WeatherInfo, prefs concierge.Preferences) []concierge.PackingItem {
	items := append([]concierge.PackingItem{}, basePacking...)

	rainy := lo.ContainsBy(weather.Forecast, func(f concierge.ForecastEntry) bool {
		return strings.Contains(strings.ToLower(f.Condition), "rain")
	})
	if rainy {
		items = append(items, concierge.PackingItem{Item: "Umbrella", Category: "weather", WeatherDependent: true})
	}
	if prefs.TravelsWithChildren() {
		items = append(items, concierge.PackingItem{Item: "Snacks for kids", Category: "food"})
	}
	return items
}
