package logistics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	generativeAI "github.com/roamerhq/roamer/internal/api/generative_ai"
	"github.com/roamerhq/roamer/internal/types"
)

const defaultTemperature = 0.7

var _ Service = (*ServiceImpl)(nil)

// Service builds day-by-day schedules and transportation guidance.
type Service interface {
	CreateItinerary(ctx context.Context, destination string, durationDays int, attractions *types.AttractionList) (*types.Itinerary, error)
	TransportationSuggestions(ctx context.Context, destination string) (*types.TransportationGuide, error)
}

type ServiceImpl struct {
	logger          *slog.Logger
	aiClient        generativeAI.Generator
	tokensItinerary int32
	tokensTransport int32
}

func NewLogisticService(aiClient generativeAI.Generator, tokensItinerary, tokensTransport int32, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:          logger,
		aiClient:        aiClient,
		tokensItinerary: tokensItinerary,
		tokensTransport: tokensTransport,
	}
}

// CreateItinerary schedules the recommended attractions across the trip's
// days, with meals and pacing decided by the model.
func (s *ServiceImpl) CreateItinerary(ctx context.Context, destination string, durationDays int, attractions *types.AttractionList) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("LogisticService").Start(ctx, "CreateItinerary", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.Int("duration_days", durationDays),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateItinerary"))

	attractionsJSON, err := json.MarshalIndent(attractions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode attractions for prompt: %w", err)
	}

	prompt := createItineraryPrompt(destination, durationDays, string(attractionsJSON))
	response, err := s.aiClient.GenerateContent(ctx, prompt, generativeAI.CallOptions{
		Type:            generativeAI.CallItinerary,
		SystemPrompt:    systemTravelPlanner,
		Temperature:     defaultTemperature,
		MaxOutputTokens: s.tokensItinerary,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary call failed")
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	var itinerary types.Itinerary
	cleaned := generativeAI.CleanJSONResponse(response)
	if err := json.Unmarshal([]byte(cleaned), &itinerary); err != nil {
		l.WarnContext(ctx, "Itinerary response is not valid JSON",
			slog.String("response", truncate(response, 200)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid itinerary JSON")
		generativeAI.RecordParseFailure(ctx, generativeAI.CallItinerary)
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAIResponse, err)
	}

	if len(itinerary.Days) == 0 {
		err := fmt.Errorf("response contains no days")
		l.WarnContext(ctx, "Itinerary validation failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Itinerary shape invalid")
		generativeAI.RecordParseFailure(ctx, generativeAI.CallItinerary)
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAIResponse, err)
	}

	span.SetAttributes(attribute.Int("itinerary.days", len(itinerary.Days)))
	span.SetStatus(codes.Ok, "Itinerary created")
	return &itinerary, nil
}

// TransportationSuggestions fetches local transport options for the
// destination.
func (s *ServiceImpl) TransportationSuggestions(ctx context.Context, destination string) (*types.TransportationGuide, error) {
	ctx, span := otel.Tracer("LogisticService").Start(ctx, "TransportationSuggestions", trace.WithAttributes(
		attribute.String("destination", destination),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "TransportationSuggestions"))

	response, err := s.aiClient.GenerateContent(ctx, transportationPrompt(destination), generativeAI.CallOptions{
		Type:            generativeAI.CallTransport,
		SystemPrompt:    systemLogisticExpert,
		Temperature:     defaultTemperature,
		MaxOutputTokens: s.tokensTransport,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Transportation call failed")
		return nil, fmt.Errorf("failed to fetch transportation suggestions: %w", err)
	}

	var guide types.TransportationGuide
	cleaned := generativeAI.CleanJSONResponse(response)
	if err := json.Unmarshal([]byte(cleaned), &guide); err != nil {
		l.WarnContext(ctx, "Transportation response is not valid JSON",
			slog.String("response", truncate(response, 200)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid transportation JSON")
		generativeAI.RecordParseFailure(ctx, generativeAI.CallTransport)
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAIResponse, err)
	}

	if len(guide.Transportation) == 0 {
		err := fmt.Errorf("response contains no transportation options")
		l.WarnContext(ctx, "Transportation validation failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Transportation shape invalid")
		generativeAI.RecordParseFailure(ctx, generativeAI.CallTransport)
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAIResponse, err)
	}

	span.SetAttributes(attribute.Int("transport.options", len(guide.Transportation)))
	span.SetStatus(codes.Ok, "Transportation fetched")
	return &guide, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
