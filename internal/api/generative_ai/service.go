package generativeAI

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/roamerhq/roamer/app/observability/metrics"
	"github.com/roamerhq/roamer/internal/types"
)

// CallType labels each model call for metrics and the interaction log.
type CallType string

const (
	CallParseDetails   CallType = "parse_details"
	CallAnalyzeMissing CallType = "analyze_missing"
	CallFollowup       CallType = "followup_question"
	CallAttractions    CallType = "attractions"
	CallItinerary      CallType = "itinerary"
	CallTransport      CallType = "transportation"
)

// CallOptions carries the per-call generation settings.
type CallOptions struct {
	Type            CallType
	SystemPrompt    string
	Temperature     float32
	MaxOutputTokens int32
}

// Generator is the narrow model surface the agents depend on. The returned
// string is the raw model text; callers decode it into their own shapes.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, opts CallOptions) (string, error)
}

// Recorder receives one entry per model call for auditing. Implementations
// must not fail the call path.
type Recorder interface {
	RecordInteraction(ctx context.Context, entry types.LLMInteraction)
}

var _ Generator = (*AIClient)(nil)

// AIClient wraps the Gemini API client.
type AIClient struct {
	client   *genai.Client
	model    string
	recorder Recorder
}

// NewAIClient creates a Gemini-backed client. The API key comes from the
// GOOGLE_GEMINI_API_KEY environment variable.
func NewAIClient(ctx context.Context, model string, recorder Recorder) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		err := fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, err
	}

	span.SetStatus(codes.Ok, "AI client created successfully")
	return &AIClient{
		client:   client,
		model:    model,
		recorder: recorder,
	}, nil
}

// GenerateContent sends one prompt to the model and returns its text output.
// Transport and auth failures are wrapped in types.ErrLLMUnavailable.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, opts CallOptions) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateContent", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", ai.model),
		attribute.String("call.type", string(opts.Type)),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](opts.Temperature),
	}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemPrompt}},
		}
	}

	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	elapsed := time.Since(start)

	if m := metrics.Get(); m != nil {
		callAttr := metric.WithAttributes(attribute.String("call_type", string(opts.Type)))
		m.LLMRequestsTotal.Add(ctx, 1, callAttr)
		m.LLMRequestDurationSecs.Record(ctx, elapsed.Seconds(), callAttr)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("%w: %v", types.ErrLLMUnavailable, err)
	}

	responseText := result.Text()
	if ai.recorder != nil {
		ai.recorder.RecordInteraction(ctx, types.LLMInteraction{
			CallType:     string(opts.Type),
			ModelName:    ai.model,
			Prompt:       prompt,
			ResponseText: responseText,
			Latency:      elapsed,
		})
	}

	span.SetAttributes(attribute.Int("response.length", len(responseText)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return responseText, nil
}

// RecordParseFailure counts a model response that was rejected as malformed,
// labeled by call type.
func RecordParseFailure(ctx context.Context, callType CallType) {
	if m := metrics.Get(); m != nil {
		m.LLMParseFailuresTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("call_type", string(callType)),
		))
	}
}

// CleanJSONResponse strips a markdown code fence wrapper from a model reply,
// since Gemini often wraps JSON in ```json blocks despite instructions.
func CleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.Trim(cleaned, "`")
		cleaned = strings.TrimSpace(cleaned)
		if strings.HasPrefix(cleaned, "json") {
			cleaned = strings.TrimSpace(cleaned[4:])
		}
	}
	return strings.TrimSpace(cleaned)
}
