package conversation

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

const (
	parseTemperature    = 0.2
	analyzeTemperature  = 0.3
	followupTemperature = 0.7

	analyzeMaxTokens  = 300
	followupMaxTokens = 100

	fallbackFollowup = "Could you tell me more about your trip?"
)

// Follow-up priority after destination: duration first, travel type last.
var followupPriority = []string{
	types.FieldDestination,
	types.FieldDuration,
	types.FieldInterests,
	types.FieldBudget,
	types.FieldTravelType,
}

// TurnResult is the outcome of evaluating one user message against the
// session's accumulated travel details.
type TurnResult struct {
	NeedsMoreInfo bool
	Followup      string
	AskedField    string
	Details       types.TravelRequest
	Analysis      types.RequestAnalysis
}

var _ Service = (*ServiceImpl)(nil)

// Service gathers a complete travel request across conversation turns.
type Service interface {
	ParseTravelDetails(ctx context.Context, userInput string) (*types.TravelRequest, error)
	AnalyzeMissingInfo(ctx context.Context, userInput string) (*types.RequestAnalysis, error)
	GenerateFollowupQuestion(ctx context.Context, details *types.TravelRequest, missing, alreadyAsked []string) (string, error)
	EvaluateTurn(ctx context.Context, userInput string, session *types.PlannerSession) (*TurnResult, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	aiClient      generativeAI.Generator
	tokensParsing int32
}

// NewConversationService creates the conversation manager.
func NewConversationService(aiClient generativeAI.Generator, tokensParsing int32, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		aiClient:      aiClient,
		tokensParsing: tokensParsing,
	}
}

// parsedDetails mirrors the extraction schema. Pointer fields distinguish
// "not mentioned" (null) from zero values.
type parsedDetails struct {
	Destination *string  `json:"destination"`
	Duration    *int     `json:"duration"`
	Interests   []string `json:"interests"`
	Budget      *string  `json:"budget"`
	TravelType  *string  `json:"travel_type"`
}

// ParseTravelDetails extracts explicitly mentioned travel fields from one
// user message. Absent fields stay zero-valued; the caller merges the result
// into the session's accumulated request.
func (s *ServiceImpl) ParseTravelDetails(ctx context.Context, userInput string) (*types.TravelRequest, error) {
	ctx, span := otel.Tracer("ConversationService").Start(ctx, "ParseTravelDetails", trace.WithAttributes(
		attribute.Int("input.length", len(userInput)),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "ParseTravelDetails"))

	response, err := s.aiClient.GenerateContent(ctx, parseTravelDetailsPrompt(userInput), generativeAI.CallOptions{
		Type:            generativeAI.CallParseDetails,
		SystemPrompt:    systemExtractor,
		Temperature:     parseTemperature,
		MaxOutputTokens: s.tokensParsing,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Extraction call failed")
		return nil, fmt.Errorf("failed to extract travel details: %w", err)
	}

	var parsed parsedDetails
	cleaned := generativeAI.CleanJSONResponse(response)
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		l.WarnContext(ctx, "Extraction returned invalid JSON",
			slog.String("response", truncate(response, 200)),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid extraction JSON")
		generativeAI.RecordParseFailure(ctx, generativeAI.CallParseDetails)
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAIResponse, err)
	}

	details := &types.TravelRequest{}
	if parsed.Destination != nil {
		details.Destination = strings.TrimSpace(*parsed.Destination)
	}
	if parsed.Duration != nil && *parsed.Duration > 0 {
		details.DurationDays = *parsed.Duration
	}
	if len(parsed.Interests) > 0 {
		details.Interests = parsed.Interests
	}
	if parsed.Budget != nil {
		details.Budget = *parsed.Budget
	}
	if parsed.TravelType != nil {
		details.TravelType = *parsed.TravelType
	}

	l.DebugContext(ctx, "Parsed travel details",
		slog.String("destination", details.Destination),
		slog.Int("duration_days", details.DurationDays),
		slog.Int("interest_count", len(details.Interests)))
	span.SetStatus(codes.Ok, "Details parsed")
	return details, nil
}

// AnalyzeMissingInfo asks the model which fields the message provided versus
// left out. A failed call degrades to "everything missing, confidence 0" so
// a single flaky analysis never blocks the conversation.
func (s *ServiceImpl) AnalyzeMissingInfo(ctx context.Context, userInput string) (*types.RequestAnalysis, error) {
	ctx, span := otel.Tracer("ConversationService").Start(ctx, "AnalyzeMissingInfo")
	defer span.End()
	l := s.logger.With(slog.String("method", "AnalyzeMissingInfo"))

	fallback := &types.RequestAnalysis{
		Provided:   []string{},
		Missing:    []string{types.FieldDestination, types.FieldDuration, types.FieldInterests},
		Unclear:    map[string]string{},
		Confidence: 0,
	}

	response, err := s.aiClient.GenerateContent(ctx, analyzeMissingInfoPrompt(userInput), generativeAI.CallOptions{
		Type:            generativeAI.CallAnalyzeMissing,
		SystemPrompt:    systemAnalyst,
		Temperature:     analyzeTemperature,
		MaxOutputTokens: analyzeMaxTokens,
	})
	if err != nil {
		l.WarnContext(ctx, "Analysis call failed, using fallback", slog.Any("error", err))
		span.RecordError(err)
		return fallback, nil
	}

	var analysis types.RequestAnalysis
	cleaned := generativeAI.CleanJSONResponse(response)
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		l.WarnContext(ctx, "Analysis returned invalid JSON, using fallback",
			slog.String("response", truncate(response, 200)))
		span.RecordError(err)
		return fallback, nil
	}

	if analysis.Unclear == nil {
		analysis.Unclear = map[string]string{}
	}
	span.SetAttributes(attribute.Int("analysis.confidence", analysis.Confidence))
	span.SetStatus(codes.Ok, "Analysis complete")
	return &analysis, nil
}

// GenerateFollowupQuestion produces one conversational question targeting
// the most important missing field. Falls back to a canned question when the
// model call or its JSON shape fails.
func (s *ServiceImpl) GenerateFollowupQuestion(ctx context.Context, details *types.TravelRequest, missing, alreadyAsked []string) (string, error) {
	ctx, span := otel.Tracer("ConversationService").Start(ctx, "GenerateFollowupQuestion")
	defer span.End()
	l := s.logger.With(slog.String("method", "GenerateFollowupQuestion"))

	if len(missing) == 0 {
		return "", nil
	}

	response, err := s.aiClient.GenerateContent(ctx, followupQuestionPrompt(details, missing, alreadyAsked), generativeAI.CallOptions{
		Type:            generativeAI.CallFollowup,
		SystemPrompt:    systemAssistant,
		Temperature:     followupTemperature,
		MaxOutputTokens: followupMaxTokens,
	})
	if err != nil {
		l.WarnContext(ctx, "Follow-up generation failed, using fallback", slog.Any("error", err))
		span.RecordError(err)
		return fallbackFollowup, nil
	}

	var wrapper struct {
		Question string `json:"question"`
	}
	cleaned := generativeAI.CleanJSONResponse(response)
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err != nil || strings.TrimSpace(wrapper.Question) == "" {
		l.WarnContext(ctx, "Follow-up response unusable, using fallback",
			slog.String("response", truncate(response, 200)))
		return fallbackFollowup, nil
	}

	span.SetStatus(codes.Ok, "Follow-up generated")
	return strings.TrimSpace(wrapper.Question), nil
}

// EvaluateTurn runs the full per-turn pipeline: extract, merge into the
// session's accumulated details, analyze, and either clear the turn for
// planning or produce a follow-up question.
func (s *ServiceImpl) EvaluateTurn(ctx context.Context, userInput string, session *types.PlannerSession) (*TurnResult, error) {
	ctx, span := otel.Tracer("ConversationService").Start(ctx, "EvaluateTurn")
	defer span.End()

	parsed, err := s.ParseTravelDetails(ctx, userInput)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Turn evaluation failed")
		return nil, err
	}

	merged := session.Details
	merged.Merge(parsed)

	analysis, err := s.AnalyzeMissingInfo(ctx, userInput)
	if err != nil {
		// AnalyzeMissingInfo degrades internally; an error here is unexpected.
		return nil, err
	}

	if ready, _ := ReadyToPlan(&merged); ready {
		span.SetStatus(codes.Ok, "Ready to plan")
		return &TurnResult{
			NeedsMoreInfo: false,
			Details:       merged,
			Analysis:      *analysis,
		}, nil
	}

	missing := merged.MissingFields()
	askField := nextFieldToAsk(missing, session.AskedFields)
	question, err := s.GenerateFollowupQuestion(ctx, &merged, missing, session.AskedFields)
	if err != nil {
		return nil, err
	}
	if question == "" {
		question = fallbackFollowup
	}

	span.SetAttributes(attribute.String("followup.field", askField))
	span.SetStatus(codes.Ok, "Follow-up required")
	return &TurnResult{
		NeedsMoreInfo: true,
		Followup:      question,
		AskedField:    askField,
		Details:       merged,
		Analysis:      *analysis,
	}, nil
}

// ReadyToPlan is the completeness gate: destination, duration and at least
// one interest. The reason string is human-readable and empty when ready.
func ReadyToPlan(details *types.TravelRequest) (bool, string) {
	missing := details.MissingFields()
	if len(missing) == 0 {
		return true, ""
	}
	return false, "still need: " + strings.Join(missing, ", ")
}

// nextFieldToAsk picks the highest-priority missing field not yet asked
// about; when every missing field has been asked it re-asks the first one.
func nextFieldToAsk(missing, alreadyAsked []string) string {
	asked := make(map[string]bool, len(alreadyAsked))
	for _, f := range alreadyAsked {
		asked[f] = true
	}
	missingSet := make(map[string]bool, len(missing))
	for _, f := range missing {
		missingSet[f] = true
	}
	for _, f := range followupPriority {
		if missingSet[f] && !asked[f] {
			return f
		}
	}
	if len(missing) > 0 {
		return missing[0]
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
