package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	LLMRequestsTotal         metric.Int64Counter
	LLMRequestDurationSecs   metric.Float64Histogram
	LLMParseFailuresTotal    metric.Int64Counter
	PlansGeneratedTotal      metric.Int64Counter
	FollowupQuestionsTotal   metric.Int64Counter
	ChatSessionsStartedTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("roamer")
		var err error
		m := &AppMetrics{}

		m.LLMRequestsTotal, err = meter.Int64Counter(
			"llm_requests_total",
			metric.WithDescription("Total number of language model calls, by call type"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_requests_total: %v", err)
		}

		m.LLMRequestDurationSecs, err = meter.Float64Histogram(
			"llm_request_duration_seconds",
			metric.WithDescription("Duration of language model calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_request_duration_seconds: %v", err)
		}

		m.LLMParseFailuresTotal, err = meter.Int64Counter(
			"llm_parse_failures_total",
			metric.WithDescription("Total number of model responses rejected as malformed JSON"),
			metric.WithUnit("{failure}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_parse_failures_total: %v", err)
		}

		m.PlansGeneratedTotal, err = meter.Int64Counter(
			"plans_generated_total",
			metric.WithDescription("Total number of complete travel plans assembled"),
			metric.WithUnit("{plan}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plans_generated_total: %v", err)
		}

		m.FollowupQuestionsTotal, err = meter.Int64Counter(
			"followup_questions_total",
			metric.WithDescription("Total number of follow-up questions asked for missing fields"),
			metric.WithUnit("{question}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create followup_questions_total: %v", err)
		}

		m.ChatSessionsStartedTotal, err = meter.Int64Counter(
			"chat_sessions_started_total",
			metric.WithDescription("Total number of chat sessions started"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_sessions_started_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics instance, or nil before InitAppMetrics.
func Get() *AppMetrics {
	return appMetrics
}
