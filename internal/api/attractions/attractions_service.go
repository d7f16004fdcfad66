package attractions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	generativeAI "github.com/roamerhq/roamer/internal/api/generative_ai"
	"github.com/roamerhq/roamer/internal/types"
)

const defaultTemperature = 0.7

var _ Service = (*ServiceImpl)(nil)

// Service recommends attractions for a destination.
type Service interface {
	FindAttractions(ctx context.Context, destination string, interests []string, durationDays int) (*types.AttractionList, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	aiClient  generativeAI.Generator
	maxTokens int32
}

func NewAttractionService(aiClient generativeAI.Generator, maxTokens int32, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		aiClient:  aiClient,
		maxTokens: maxTokens,
	}
}

// FindAttractions asks the model for 3-5 ranked attractions matching the
// traveler's interests. The response shape is validated before use.
func (s *ServiceImpl) FindAttractions(ctx context.Context, destination string, interests []string, durationDays int) (*types.AttractionList, error) {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "FindAttractions", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.Int("duration_days", durationDays),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "FindAttractions"))

	prompt := findAttractionsPrompt(destination, interests, durationDays)
	response, err := s.aiClient.GenerateContent(ctx, prompt, generativeAI.CallOptions{
		Type:            generativeAI.CallAttractions,
		SystemPrompt:    systemTravelGuide,
		Temperature:     defaultTemperature,
		MaxOutputTokens: s.maxTokens,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attraction call failed")
		return nil, fmt.Errorf("failed to fetch attractions: %w", err)
	}

	var list types.AttractionList
	cleaned := generativeAI.CleanJSONResponse(response)
	if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
		l.WarnContext(ctx, "Attractions response is not valid JSON",
			slog.String("response", truncate(response, 200)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid attractions JSON")
		generativeAI.RecordParseFailure(ctx, generativeAI.CallAttractions)
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAIResponse, err)
	}

	if err := validateAttractions(&list); err != nil {
		l.WarnContext(ctx, "Attractions validation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attractions shape invalid")
		generativeAI.RecordParseFailure(ctx, generativeAI.CallAttractions)
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAIResponse, err)
	}

	span.SetAttributes(attribute.Int("attractions.count", len(list.Attractions)))
	span.SetStatus(codes.Ok, "Attractions fetched")
	return &list, nil
}

// validateAttractions checks the decoded response carries usable entries.
func validateAttractions(list *types.AttractionList) error {
	if len(list.Attractions) == 0 {
		return fmt.Errorf("response contains no attractions")
	}
	for i, a := range list.Attractions {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("attraction %d is missing a name", i)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
