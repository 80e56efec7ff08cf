// Package concierge holds the records exchanged between trip extraction,
// itinerary planning and the conversation layer.
package concierge

import (
	"strings"
	"time"

	"travel-concierge-be/pkg/dates"
)

const (
	DefaultPartyType     = "couple"
	DefaultBudget        = "medium"
	DefaultMobilityNeeds = "none"
)

type Preferences struct {
	Budget         string   `json:"budget"`
	Interests      []string `json:"interests"`
	MobilityNeeds  string   `json:"mobility_needs"`
	DietaryFilters []string `json:"dietary_filters"`
	Children       int      `json:"children"`
}

// WithDefaults fills every unset field. Slices are never nil afterwards so
// they serialize as [] rather than null.
func (p Preferences) WithDefaults() Preferences {
	if strings.TrimSpace(p.Budget) == "" {
		p.Budget = DefaultBudget
	}
	if strings.TrimSpace(p.MobilityNeeds) == "" {
		p.MobilityNeeds = DefaultMobilityNeeds
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	if p.DietaryFilters == nil {
		p.DietaryFilters = []string{}
	}
	if p.Children < 0 {
		p.Children = 0
	}
	return p
}

func (p Preferences) NeedsWheelchairAccess() bool {
	return strings.Contains(strings.ToLower(p.MobilityNeeds), "wheelchair")
}

func (p Preferences) TravelsWithChildren() bool {
	return p.Children > 0
}

// TripParameters is rebuilt on every turn. An empty Location or a zero Dates
// means the field is unresolved.
type TripParameters struct {
	Location    string
	Dates       dates.Range
	PartyType   string
	Preferences Preferences
}

func (t TripParameters) HasLocation() bool {
	return t.Location != ""
}

func (t TripParameters) HasDates() bool {
	return !t.Dates.IsZero()
}

// Ready reports whether an itinerary can be built.
func (t TripParameters) Ready() bool {
	return t.HasLocation() && t.HasDates()
}

// Missing names the unresolved fields in the order they are asked for.
func (t TripParameters) Missing() []string {
	var missing []string
	if !t.HasLocation() {
		missing = append(missing, "destination")
	}
	if !t.HasDates() {
		missing = append(missing, "travel dates")
	}
	return missing
}

// BookingContext is structured trip data supplied by the caller or recovered
// from the booking service. Dates may hold any shape the date normalizer
// accepts; StartDate and EndDate are used when Dates is absent.
type BookingContext struct {
	Location  string      `json:"location"`
	Dates     interface{} `json:"dates,omitempty"`
	StartDate string      `json:"startDate,omitempty"`
	EndDate   string      `json:"endDate,omitempty"`
	PartyType string      `json:"party_type,omitempty"`
	Guests    int         `json:"guests,omitempty"`
}

func (b *BookingContext) IsEmpty() bool {
	return b == nil || (strings.TrimSpace(b.Location) == "" && b.Dates == nil && b.StartDate == "" && b.EndDate == "")
}

// DateSource returns the value to hand to the date normalizer, or nil.
func (b *BookingContext) DateSource() interface{} {
	if b == nil {
		return nil
	}
	if b.Dates != nil && b.Dates != "" {
		return b.Dates
	}
	if b.StartDate == "" {
		return nil
	}
	if b.EndDate == "" {
		return []interface{}{b.StartDate}
	}
	return []interface{}{b.StartDate, b.EndDate}
}

// Turn is one entry of conversation history as the extractor sees it.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
