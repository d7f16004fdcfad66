package planner

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamerhq/roamer/internal/api"
	"github.com/roamerhq/roamer/internal/types"
)

const tryAgainMessage = "We couldn't reach the travel planner right now. Please try again."

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	StartChatSessionHandler(w http.ResponseWriter, r *http.Request)
	ContinueChatSessionHandler(w http.ResponseWriter, r *http.Request)
	GetChatSessionHandler(w http.ResponseWriter, r *http.Request)
	EndChatSessionHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	plannerService Service
	logger         *slog.Logger
}

func NewPlannerHandler(plannerService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		plannerService: plannerService,
		logger:         logger,
	}
}

func (h *HandlerImpl) StartChatSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "StartChatSession", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat/sessions"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "StartChatSession"))

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "message must not be empty")
		return
	}

	resp, err := h.plannerService.StartSession(ctx, req.Message)
	if err != nil {
		l.ErrorContext(ctx, "Failed to start chat session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Start session failed")
		h.writeServiceError(w, r, err)
		return
	}

	span.SetStatus(codes.Ok, "Session started")
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

func (h *HandlerImpl) ContinueChatSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "ContinueChatSession", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat/sessions/{sessionID}/messages"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ContinueChatSession"))

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format in URL")
		return
	}

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "message must not be empty")
		return
	}

	resp, err := h.plannerService.ContinueSession(ctx, sessionID, req.Message)
	if err != nil {
		l.ErrorContext(ctx, "Failed to continue chat session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Continue session failed")
		h.writeServiceError(w, r, err)
		return
	}

	span.SetStatus(codes.Ok, "Turn processed")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

func (h *HandlerImpl) GetChatSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "GetChatSession")
	defer span.End()

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format in URL")
		return
	}

	session, err := h.plannerService.GetSession(ctx, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, "Session not found")
		h.writeServiceError(w, r, err)
		return
	}

	span.SetStatus(codes.Ok, "Session fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, session)
}

func (h *HandlerImpl) EndChatSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "EndChatSession")
	defer span.End()

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format in URL")
		return
	}

	if err := h.plannerService.EndSession(ctx, sessionID); err != nil {
		span.SetStatus(codes.Error, "Session not found")
		h.writeServiceError(w, r, err)
		return
	}

	span.SetStatus(codes.Ok, "Session ended")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// writeServiceError maps service errors to the documented user-facing
// responses: unknown sessions are 404, model outages are a generic 502
// "try again", anything else is a 500.
func (h *HandlerImpl) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrSessionNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Chat session not found or expired")
	case errors.Is(err, types.ErrLLMUnavailable):
		api.ErrorResponse(w, r, http.StatusBadGateway, tryAgainMessage)
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
