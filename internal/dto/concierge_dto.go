package dto

import "travel-concierge-be/pkg/concierge"

type ConciergeBookingContext struct {
	Location  string      `json:"location" validate:"required"`
	Dates     interface{} `json:"dates" validate:"required"`
	PartyType string      `json:"party_type"`
}

// ConciergeRequest plans directly from structured input, without a chat turn.
type ConciergeRequest struct {
	BookingContext ConciergeBookingContext `json:"booking_context"`
	Preferences    concierge.Preferences   `json:"preferences"`
	FreeTextQuery  string                  `json:"free_text_query,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
