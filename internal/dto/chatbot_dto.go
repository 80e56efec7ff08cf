package dto

import (
	"time"

	"travel-concierge-be/pkg/concierge"
)

type ChatbotRequest struct {
	TravelerId     string                    `json:"traveler_id" validate:"required,max=64"`
	Message        string                    `json:"message" validate:"required,max=4000"`
	BookingContext *concierge.BookingContext `json:"booking_context,omitempty"`
	// Authorization is copied from the request header, never from the body.
	Authorization string `json:"-"`
}

type ChatbotResponse struct {
	Reply     string               `json:"reply"`
	Itinerary *concierge.Itinerary `json:"itinerary,omitempty"`
}

type ConversationMessage struct {
	Role      string               `json:"role"`
	Content   string               `json:"content"`
	Timestamp time.Time            `json:"timestamp"`
	Itinerary *concierge.Itinerary `json:"itinerary,omitempty"`
}

type ConversationHistoryResponse struct {
	TravelerId string                `json:"traveler_id"`
	Messages   []ConversationMessage `json:"messages"`
}
