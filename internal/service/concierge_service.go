package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"travel-concierge-be/internal/dto"
	"travel-concierge-be/internal/entity"
	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/internal/repository/contract"
	"travel-concierge-be/pkg/booking"
	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/concierge/extractor"
	"travel-concierge-be/pkg/concierge/planner"
	"travel-concierge-be/pkg/concierge/reply"
	"travel-concierge-be/pkg/dates"
	"travel-concierge-be/pkg/events"
)

const conciergeLogModule = "CONCIERGE"

var bookingHistoryPattern = regexp.MustCompile(
	`(?i)\b(?:my|last|previous|recent|upcoming|existing|current)\s+(?:bookings?|reservations?|trips?|stays?)\b|\bbooking\s+history\b|\bwhat\s+did\s+i\s+book\b`,
)

type TripExtractor interface {
	Extract(ctx context.Context, req extractor.Request) (concierge.TripParameters, error)
}

type ItineraryAssembler interface {
	Assemble(ctx context.Context, req planner.Request) (*concierge.Itinerary, error)
}

type IConciergeService interface {
	// Chat answers one message. Conversational failures become replies, so
	// the error is reserved for a nil request.
	Chat(ctx context.Context, req *dto.ChatbotRequest) (*dto.ChatbotResponse, error)
	History(ctx context.Context, travelerId string) (*dto.ConversationHistoryResponse, error)
	ClearHistory(ctx context.Context, travelerId string) error
	// Plan builds an itinerary from structured input. Bad dates are reported
	// as dates.ErrInvalidDateFormat, assembly failures as planner.ErrPlanning.
	Plan(ctx context.Context, req *dto.ConciergeRequest) (*concierge.Itinerary, error)
}

type conciergeService struct {
	extractor    TripExtractor
	assembler    ItineraryAssembler
	bookings     booking.Provider
	conversation contract.ConversationRepository
	publisher    IPublisherService
	normalizer   *dates.Normalizer
	logger       logger.ILogger
	now          func() time.Time
}

// NewConciergeService wires the orchestrator. bookings and publisher may be nil.
func NewConciergeService(
	tripExtractor TripExtractor,
	assembler ItineraryAssembler,
	bookings booking.Provider,
	conversation contract.ConversationRepository,
	publisher IPublisherService,
	normalizer *dates.Normalizer,
	log logger.ILogger,
) IConciergeService {
	if normalizer == nil {
		normalizer = dates.NewNormalizer()
	}
	return &conciergeService{
		extractor:    tripExtractor,
		assembler:    assembler,
		bookings:     bookings,
		conversation: conversation,
		publisher:    publisher,
		normalizer:   normalizer,
		logger:       log,
		now:          time.Now,
	}
}

type outcomeKind string

const (
	outcomeRetry            outcomeKind = "retry"
	outcomePlanned          outcomeKind = "planned"
	outcomePlanningFailed   outcomeKind = "planning_failed"
	outcomeBookingSuggested outcomeKind = "booking_suggested"
	outcomeMissingFields    outcomeKind = "missing_fields"
)

// outcome is the single decision taken for a turn.
type outcome struct {
	kind      outcomeKind
	reply     string
	itinerary *concierge.Itinerary
	params    concierge.TripParameters
}

func (s *conciergeService) Chat(ctx context.Context, req *dto.ChatbotRequest) (*dto.ChatbotResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("chat request is required")
	}

	// read before appending so the current message is not repeated in the prompt
	history := s.recentTurns(ctx, req.TravelerId)
	s.appendTurn(ctx, req.TravelerId, concierge.RoleUser, req.Message, nil)

	result := s.decide(ctx, req, history)

	s.appendTurn(ctx, req.TravelerId, concierge.RoleAssistant, result.reply, result.itinerary)
	if result.kind == outcomePlanned {
		s.publishItinerary(ctx, req.TravelerId, result)
	}

	s.logger.Info(conciergeLogModule, "Chat turn answered", map[string]interface{}{
		"traveler_id": req.TravelerId,
		"outcome":     string(result.kind),
	})
	return &dto.ChatbotResponse{Reply: result.reply, Itinerary: result.itinerary}, nil
}

func (s *conciergeService) decide(ctx context.Context, req *dto.ChatbotRequest, history []concierge.Turn) outcome {
	params, err := s.extractor.Extract(ctx, extractor.Request{
		Message: req.Message,
		History: history,
		Booking: req.BookingContext,
	})
	if err != nil {
		s.logger.Warn(conciergeLogModule, "Extraction failed, asking to retry", map[string]interface{}{
			"traveler_id": req.TravelerId,
			"error":       err.Error(),
		})
		return outcome{kind: outcomeRetry, reply: reply.Retry()}
	}

	if params.Ready() {
		itinerary, err := s.assembler.Assemble(ctx, planner.Request{
			Location:    params.Location,
			Dates:       params.Dates,
			PartyType:   params.PartyType,
			Preferences: params.Preferences,
		})
		if err != nil {
			s.logger.Error(conciergeLogModule, "Itinerary assembly failed", map[string]interface{}{
				"traveler_id": req.TravelerId,
				"location":    params.Location,
				"dates":       params.Dates.String(),
				"error":       err.Error(),
			})
			return outcome{kind: outcomePlanningFailed, reply: reply.PlanningFailed(params, err), params: params}
		}
		return outcome{kind: outcomePlanned, reply: reply.Planned(params), itinerary: itinerary, params: params}
	}

	if bookingHistoryPattern.MatchString(req.Message) {
		if found := s.bookingContext(ctx, req); found != nil {
			return outcome{
				kind:   outcomeBookingSuggested,
				reply:  reply.BookingSuggestion(*found, s.bookingDates(found)),
				params: params,
			}
		}
	}

	return outcome{kind: outcomeMissingFields, reply: reply.MissingFields(params.Missing()), params: params}
}

// bookingContext prefers what the caller sent and otherwise asks the booking
// service for the latest active booking.
func (s *conciergeService) bookingContext(ctx context.Context, req *dto.ChatbotRequest) *concierge.BookingContext {
	if !req.BookingContext.IsEmpty() && strings.TrimSpace(req.BookingContext.Location) != "" {
		return req.BookingContext
	}
	if s.bookings == nil {
		return nil
	}

	latest, ok := booking.LatestActive(s.bookings.FetchBookings(ctx, req.TravelerId, req.Authorization))
	if !ok {
		return nil
	}
	s.logger.Info(conciergeLogModule, "Suggesting booking from history", map[string]interface{}{
		"traveler_id": req.TravelerId,
		"booking_id":  latest.ID,
		"location":    latest.Location,
	})
	return latest.Context()
}

func (s *conciergeService) bookingDates(b *concierge.BookingContext) string {
	r, err := s.normalizer.Normalize(b.DateSource())
	if err != nil {
		return ""
	}
	return r.String()
}

func (s *conciergeService) recentTurns(ctx context.Context, travelerId string) []concierge.Turn {
	stored, err := s.conversation.FindRecent(ctx, travelerId, extractor.HistoryWindow)
	if err != nil {
		s.logger.Warn(conciergeLogModule, "Failed to read conversation history", map[string]interface{}{
			"traveler_id": travelerId,
			"error":       err.Error(),
		})
		return nil
	}
	turns := make([]concierge.Turn, 0, len(stored))
	for _, t := range stored {
		turns = append(turns, t.Turn())
	}
	return turns
}

// appendTurn logs and swallows persistence errors.
func (s *conciergeService) appendTurn(ctx context.Context, travelerId, role, content string, itinerary *concierge.Itinerary) {
	err := s.conversation.Append(ctx, &entity.ConversationTurn{
		TravelerId: travelerId,
		Role:       role,
		Content:    content,
		Itinerary:  itinerary,
		CreatedAt:  s.now(),
	})
	if err != nil {
		s.logger.Error(conciergeLogModule, "Failed to store conversation turn", map[string]interface{}{
			"traveler_id": travelerId,
			"role":        role,
			"error":       err.Error(),
		})
	}
}

func (s *conciergeService) publishItinerary(ctx context.Context, travelerId string, result outcome) {
	if s.publisher == nil {
		return
	}
	event := events.NewItineraryGenerated(
		travelerId,
		result.params.Location,
		result.params.Dates.String(),
		result.params.PartyType,
		len(result.itinerary.DayByDayPlan),
		s.now(),
	)
	payload, err := json.Marshal(dto.EventMessage{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err == nil {
		err = s.publisher.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Warn(conciergeLogModule, "Failed to publish itinerary event", map[string]interface{}{
			"traveler_id": travelerId,
			"error":       err.Error(),
		})
	}
}

func (s *conciergeService) History(ctx context.Context, travelerId string) (*dto.ConversationHistoryResponse, error) {
	stored, err := s.conversation.FindRecent(ctx, travelerId, 0)
	if err != nil {
		return nil, fmt.Errorf("read conversation history: %w", err)
	}

	messages := make([]dto.ConversationMessage, 0, len(stored))
	for _, t := range stored {
		messages = append(messages, dto.ConversationMessage{
			Role:      t.Role,
			Content:   t.Content,
			Timestamp: t.CreatedAt,
			Itinerary: t.Itinerary,
		})
	}
	return &dto.ConversationHistoryResponse{TravelerId: travelerId, Messages: messages}, nil
}

func (s *conciergeService) ClearHistory(ctx context.Context, travelerId string) error {
	if err := s.conversation.DeleteByTravelerId(ctx, travelerId); err != nil {
		return fmt.Errorf("clear conversation history: %w", err)
	}
	s.logger.Info(conciergeLogModule, "Conversation cleared", map[string]interface{}{
		"traveler_id": travelerId,
	})
	return nil
}

func (s *conciergeService) Plan(ctx context.Context, req *dto.ConciergeRequest) (*concierge.Itinerary, error) {
	r, err := s.normalizer.Normalize(req.BookingContext.Dates)
	if err != nil {
		return nil, err
	}

	partyType := strings.TrimSpace(req.BookingContext.PartyType)
	if partyType == "" {
		partyType = concierge.DefaultPartyType
	}

	if req.FreeTextQuery != "" {
		s.logger.Debug(conciergeLogModule, "Free text query received with concierge request", map[string]interface{}{
			"query": req.FreeTextQuery,
		})
	}

	return s.assembler.Assemble(ctx, planner.Request{
		Location:    strings.TrimSpace(req.BookingContext.Location),
		Dates:       r,
		PartyType:   partyType,
		Preferences: req.Preferences.WithDefaults(),
	})
}
