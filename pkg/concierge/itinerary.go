package concierge

type ActivityCard struct {
	Title              string   `json:"title"`
	Address            string   `json:"address,omitempty"`
	PriceTier          string   `json:"price_tier,omitempty"`
	Duration           string   `json:"duration,omitempty"`
	Tags               []string `json:"tags"`
	WheelchairFriendly bool     `json:"wheelchair_friendly"`
	ChildFriendly      bool     `json:"child_friendly"`
}

type RestaurantRecommendation struct {
	Name                  string   `json:"name"`
	Address               string   `json:"address,omitempty"`
	CuisineType           string   `json:"cuisine_type,omitempty"`
	PriceTier             string   `json:"price_tier,omitempty"`
	DietaryAccommodations []string `json:"dietary_accommodations"`
	Rating                float64  `json:"rating,omitempty"`
}

type LocalEvent struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type PackingItem struct {
	Item             string `json:"item"`
	Category         string `json:"category"`
	WeatherDependent bool   `json:"weather_dependent"`
}

type ForecastEntry struct {
	Date      string `json:"date"`
	Temp      string `json:"temp"`
	Condition string `json:"condition"`
}

type WeatherInfo struct {
	Location string          `json:"location"`
	Forecast []ForecastEntry `json:"forecast"`
}

// DayPlan slots hold one card each, or none when no activities were found.
type DayPlan struct {
	Date      string         `json:"date"`
	Morning   []ActivityCard `json:"morning"`
	Afternoon []ActivityCard `json:"afternoon"`
	Evening   []ActivityCard `json:"evening"`
}

// Itinerary is built once per planning request and handed over whole.
type Itinerary struct {
	DayByDayPlan              []DayPlan                  `json:"day_by_day_plan"`
	ActivityCards             []ActivityCard             `json:"activity_cards"`
	RestaurantRecommendations []RestaurantRecommendation `json:"restaurant_recommendations"`
	PackingChecklist          []PackingItem              `json:"packing_checklist"`
	WeatherInfo               WeatherInfo                `json:"weather_info"`
	LocalEvents               []LocalEvent               `json:"local_events"`
}
