// Package extractor turns a chat message into trip parameters. The model is
// asked for JSON, but every field it returns is treated as one candidate
// among several: booking data and the raw message back it up, and every date
// goes through the shared normalizer.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"
	"travel-concierge-be/pkg/llm"
)

const logModule = "EXTRACTOR"

type Request struct {
	Message string
	// History holds earlier turns, oldest first. Only the last
	// HistoryWindow turns reach the prompt.
	History []concierge.Turn
	Booking *concierge.BookingContext
}

type Extractor struct {
	model      llm.LLMProvider
	logger     logger.ILogger
	trace      logger.ILogger
	normalizer *dates.Normalizer
	timeout    time.Duration
}

type Option func(*Extractor)

func WithNormalizer(n *dates.Normalizer) Option {
	return func(e *Extractor) {
		e.normalizer = n
	}
}

// WithTraceLogger records every prompt and raw model response.
func WithTraceLogger(trace logger.ILogger) Option {
	return func(e *Extractor) {
		e.trace = trace
	}
}

// WithTimeout bounds the model call. Zero leaves the caller's deadline alone.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

func New(model llm.LLMProvider, log logger.ILogger, opts ...Option) *Extractor {
	e := &Extractor{
		model:      model,
		logger:     log,
		trace:      logger.NewNopLogger(),
		normalizer: dates.NewNormalizer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract never fails on bad model output: unresolved fields stay empty.
// The only error is a model backend that could not be reached, reported as
// llm.ErrUnavailable so the caller can ask the traveler to retry.
func (e *Extractor) Extract(ctx context.Context, req Request) (concierge.TripParameters, error) {
	raw, err := e.ask(ctx, req)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			e.logger.Error(logModule, "Language model unavailable", map[string]interface{}{
				"error": err.Error(),
			})
			return concierge.TripParameters{}, fmt.Errorf("extract trip parameters: %w", err)
		}
		e.logger.Warn(logModule, "Language model call failed, using fallbacks only", map[string]interface{}{
			"error": err.Error(),
		})
		raw = ""
	}

	out, err := parseModelOutput(raw)
	if err != nil {
		e.logger.Warn(logModule, "Model response is not usable JSON", map[string]interface{}{
			"error":    err.Error(),
			"response": truncate(raw, 200),
		})
	}

	return e.resolve(sources{message: req.Message, model: out, booking: req.Booking}), nil
}

func (e *Extractor) ask(ctx context.Context, req Request) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	prompt := NewPromptBuilder(req.History, req.Message, e.normalizer.Today()).Build()
	e.trace.Info(logModule, "Extraction prompt", map[string]interface{}{
		"prompt": prompt,
	})

	start := time.Now()
	raw, err := e.model.Generate(ctx, prompt, llm.WithTemperature(0), llm.WithJSONOutput())
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, llm.ErrUnavailable) {
		err = llm.Unavailable("extractor", err)
	}

	e.trace.Info(logModule, "Extraction response", map[string]interface{}{
		"response":    raw,
		"duration_ms": time.Since(start).Milliseconds(),
		"failed":      err != nil,
	})
	return raw, err
}

func (e *Extractor) resolve(src sources) concierge.TripParameters {
	location, locationFrom := firstText(locationResolvers, src)
	rng, datesFrom, rejected := firstRange(e.normalizer, dateResolvers, src)
	partyType, _ := firstText(partyTypeResolvers, src)
	if partyType == "" {
		partyType = concierge.DefaultPartyType
	}

	params := concierge.TripParameters{
		Location:  location,
		Dates:     rng,
		PartyType: strings.ToLower(partyType),
		Preferences: concierge.Preferences{
			Budget:         strings.ToLower(textValue(src.model.Budget)),
			Interests:      listValue(src.model.Interests),
			DietaryFilters: listValue(src.model.DietaryFilters),
		}.WithDefaults(),
	}

	e.logger.Info(logModule, "Trip parameters resolved", map[string]interface{}{
		"location":       params.Location,
		"location_from":  locationFrom,
		"dates":          params.Dates.String(),
		"dates_from":     datesFrom,
		"dates_rejected": rejected,
		"party_type":     params.PartyType,
	})
	return params
}

// truncate keeps the first n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
