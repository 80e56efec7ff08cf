package booking

import (
	"context"
	"sort"
	"strings"

	"travel-concierge-be/pkg/concierge"
)

const (
	StatusPending   = "PENDING"
	StatusAccepted  = "ACCEPTED"
	StatusCancelled = "CANCELLED"
)

// Booking mirrors a reservation record from the booking service. Dates stay in
// the service's ISO form and are normalized only when used as trip dates.
type Booking struct {
	ID         string `json:"_id"`
	TravelerID string `json:"travelerId"`
	PropertyID string `json:"propertyId"`
	Title      string `json:"title,omitempty"`
	Location   string `json:"location,omitempty"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Guests     int    `json:"guests"`
	Status     string `json:"status"`
}

// Provider never fails: any problem reaching the booking service yields an
// empty list. authorization is the caller's Authorization header, if any.
type Provider interface {
	FetchBookings(ctx context.Context, travelerID, authorization string) []Booking
}

// LatestActive picks the booking with the latest start date that was not
// cancelled and names a location.
func LatestActive(bookings []Booking) (Booking, bool) {
	candidates := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if strings.EqualFold(b.Status, StatusCancelled) || strings.TrimSpace(b.Location) == "" {
			continue
		}
		candidates = append(candidates, b)
	}
	if len(candidates) == 0 {
		return Booking{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].StartDate > candidates[j].StartDate
	})
	return candidates[0], true
}

func (b Booking) Context() *concierge.BookingContext {
	return &concierge.BookingContext{
		Location:  b.Location,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Guests:    b.Guests,
	}
}
