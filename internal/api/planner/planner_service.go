package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamerhq/roamer/app/observability/metrics"
	"github.com/roamerhq/roamer/internal/api/attractions"
	"github.com/roamerhq/roamer/internal/api/conversation"
	"github.com/roamerhq/roamer/internal/api/interactions"
	"github.com/roamerhq/roamer/internal/api/logistics"
	"github.com/roamerhq/roamer/internal/types"
)

// Assistant reply when the model's output could not be understood. The
// session stays usable; the user just tries again in-band.
const rephraseMessage = "I'm sorry, I had trouble understanding that. Could you rephrase your request?"

var _ Service = (*ServiceImpl)(nil)

// Service sequences the conversation manager and the two planning agents
// into complete chat turns.
type Service interface {
	StartSession(ctx context.Context, message string) (*types.ChatResponse, error)
	ContinueSession(ctx context.Context, sessionID uuid.UUID, message string) (*types.ChatResponse, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*types.PlannerSession, error)
	EndSession(ctx context.Context, sessionID uuid.UUID) error
	PlanTrip(ctx context.Context, details types.TravelRequest) (*types.TravelPlan, error)
}

type ServiceImpl struct {
	logger          *slog.Logger
	conversationSvc conversation.Service
	attractionSvc   attractions.Service
	logisticSvc     logistics.Service
	sessions        *SessionStore
}

// NewPlannerService creates the coordinator over the individual agents.
func NewPlannerService(
	conversationSvc conversation.Service,
	attractionSvc attractions.Service,
	logisticSvc logistics.Service,
	sessions *SessionStore,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:          logger,
		conversationSvc: conversationSvc,
		attractionSvc:   attractionSvc,
		logisticSvc:     logisticSvc,
		sessions:        sessions,
	}
}

// StartSession creates a session and processes the first message.
func (s *ServiceImpl) StartSession(ctx context.Context, message string) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "StartSession")
	defer span.End()

	session := s.sessions.Create()
	if m := metrics.Get(); m != nil {
		m.ChatSessionsStartedTotal.Add(ctx, 1)
	}

	resp, err := s.processTurn(ctx, session, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "First turn failed")
		return nil, err
	}
	resp.IsNewSession = true
	span.SetAttributes(attribute.String("session.id", session.ID.String()))
	span.SetStatus(codes.Ok, "Session started")
	return resp, nil
}

// ContinueSession processes one more turn for an existing session.
func (s *ServiceImpl) ContinueSession(ctx context.Context, sessionID uuid.UUID, message string) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "ContinueSession", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
	))
	defer span.End()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		span.SetStatus(codes.Error, "Session not found")
		return nil, err
	}

	resp, err := s.processTurn(ctx, session, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Turn failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Turn processed")
	return resp, nil
}

func (s *ServiceImpl) GetSession(ctx context.Context, sessionID uuid.UUID) (*types.PlannerSession, error) {
	return s.sessions.Get(sessionID)
}

func (s *ServiceImpl) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := s.sessions.Get(sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	return nil
}

// processTurn runs one conversation turn: either a follow-up question or a
// complete rendered plan. Malformed model output becomes an in-band
// assistant message so the session survives the bad turn.
func (s *ServiceImpl) processTurn(ctx context.Context, session *types.PlannerSession, message string) (*types.ChatResponse, error) {
	ctx = interactions.WithSessionID(ctx, session.ID)
	l := s.logger.With(slog.String("session_id", session.ID.String()))

	session.Messages = append(session.Messages, types.ConversationMessage{
		Role:      types.RoleUser,
		Content:   message,
		Timestamp: time.Now(),
	})

	turn, err := s.conversationSvc.EvaluateTurn(ctx, message, session)
	if err != nil {
		if errors.Is(err, types.ErrMalformedAIResponse) {
			l.WarnContext(ctx, "Extraction produced malformed output, asking user to rephrase", slog.Any("error", err))
			return s.reply(session, &types.ChatResponse{
				SessionID:     session.ID,
				Message:       rephraseMessage,
				NeedsMoreInfo: true,
			}), nil
		}
		return nil, err
	}

	session.Details = turn.Details

	if turn.NeedsMoreInfo {
		if turn.AskedField != "" && !session.AlreadyAsked(turn.AskedField) {
			session.AskedFields = append(session.AskedFields, turn.AskedField)
		}
		if m := metrics.Get(); m != nil {
			m.FollowupQuestionsTotal.Add(ctx, 1)
		}
		return s.reply(session, &types.ChatResponse{
			SessionID:     session.ID,
			Message:       turn.Followup,
			NeedsMoreInfo: true,
			MissingFields: turn.Details.MissingFields(),
			Confidence:    turn.Analysis.Confidence,
		}), nil
	}

	plan, err := s.PlanTrip(ctx, turn.Details)
	if err != nil {
		if errors.Is(err, types.ErrMalformedAIResponse) {
			return s.reply(session, &types.ChatResponse{
				SessionID:     session.ID,
				Message:       rephraseMessage,
				NeedsMoreInfo: true,
			}), nil
		}
		return nil, err
	}

	session.Plan = plan
	return s.reply(session, &types.ChatResponse{
		SessionID:  session.ID,
		Message:    RenderPlan(plan),
		Plan:       plan,
		Confidence: turn.Analysis.Confidence,
	}), nil
}

// reply appends the assistant message to the transcript and saves the session.
func (s *ServiceImpl) reply(session *types.PlannerSession, resp *types.ChatResponse) *types.ChatResponse {
	session.Messages = append(session.Messages, types.ConversationMessage{
		Role:      types.RoleAssistant,
		Content:   resp.Message,
		Timestamp: time.Now(),
	})
	s.sessions.Save(session)
	return resp
}

// PlanTrip runs the three planning calls in sequence: attractions, then the
// itinerary built from them, then transportation. Individual failures become
// plan warnings; only a fully failed plan is an error.
func (s *ServiceImpl) PlanTrip(ctx context.Context, details types.TravelRequest) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "PlanTrip", trace.WithAttributes(
		attribute.String("destination", details.Destination),
		attribute.Int("duration_days", details.DurationDays),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "PlanTrip"))

	if !details.Complete() {
		if details.Destination == "" {
			return nil, types.ErrDestinationRequired
		}
		return nil, fmt.Errorf("travel request is incomplete: missing %v", details.MissingFields())
	}

	plan := &types.TravelPlan{Details: details}

	attractionList, err := s.attractionSvc.FindAttractions(ctx, details.Destination, details.Interests, details.DurationDays)
	if err != nil {
		l.WarnContext(ctx, "Could not fetch attractions", slog.Any("error", err))
		plan.Warnings = append(plan.Warnings, "Could not fetch attractions for your trip.")
		attractionList = &types.AttractionList{}
	}
	plan.Attractions = *attractionList

	itinerary, err := s.logisticSvc.CreateItinerary(ctx, details.Destination, details.DurationDays, attractionList)
	if err != nil {
		l.WarnContext(ctx, "Could not create itinerary", slog.Any("error", err))
		plan.Warnings = append(plan.Warnings, "Could not create a day-by-day itinerary.")
	} else {
		plan.Itinerary = *itinerary
	}

	transport, err := s.logisticSvc.TransportationSuggestions(ctx, details.Destination)
	if err != nil {
		l.WarnContext(ctx, "Could not fetch transportation suggestions", slog.Any("error", err))
		plan.Warnings = append(plan.Warnings, "Could not fetch transportation suggestions.")
	} else {
		plan.Transport = *transport
	}

	// All three sections empty means nothing usable came back.
	if len(plan.Attractions.Attractions) == 0 && len(plan.Itinerary.Days) == 0 && len(plan.Transport.Transportation) == 0 {
		span.SetStatus(codes.Error, "All planning calls failed")
		return nil, fmt.Errorf("%w: all planning calls failed", types.ErrLLMUnavailable)
	}

	if m := metrics.Get(); m != nil {
		m.PlansGeneratedTotal.Add(ctx, 1)
	}
	span.SetAttributes(attribute.Int("plan.warnings", len(plan.Warnings)))
	span.SetStatus(codes.Ok, "Plan assembled")
	return plan, nil
}
