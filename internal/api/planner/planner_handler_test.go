package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roamerhq/roamer/internal/types"
)

type MockPlannerService struct {
	mock.Mock
}

func (m *MockPlannerService) StartSession(ctx context.Context, message string) (*types.ChatResponse, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ChatResponse), args.Error(1)
}

func (m *MockPlannerService) ContinueSession(ctx context.Context, sessionID uuid.UUID, message string) (*types.ChatResponse, error) {
	args := m.Called(ctx, sessionID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ChatResponse), args.Error(1)
}

func (m *MockPlannerService) GetSession(ctx context.Context, sessionID uuid.UUID) (*types.PlannerSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PlannerSession), args.Error(1)
}

func (m *MockPlannerService) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockPlannerService) PlanTrip(ctx context.Context, details types.TravelRequest) (*types.TravelPlan, error) {
	args := m.Called(ctx, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TravelPlan), args.Error(1)
}

func setupPlannerHandlerTest() (*chi.Mux, *MockPlannerService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockPlannerService)
	handler := NewPlannerHandler(mockService, logger)

	r := chi.NewRouter()
	r.Post("/chat/sessions", handler.StartChatSessionHandler)
	r.Post("/chat/sessions/{sessionID}/messages", handler.ContinueChatSessionHandler)
	r.Get("/chat/sessions/{sessionID}", handler.GetChatSessionHandler)
	r.Delete("/chat/sessions/{sessionID}", handler.EndChatSessionHandler)
	return r, mockService
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestStartChatSessionHandler(t *testing.T) {
	t.Run("valid message starts a session", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()
		sessionID := uuid.New()
		mockService.On("StartSession", mock.Anything, "5 days in Tokyo").Return(&types.ChatResponse{
			SessionID:     sessionID,
			Message:       "How about sushi tours?",
			NeedsMoreInfo: true,
			IsNewSession:  true,
		}, nil).Once()

		rr := postJSON(t, router, "/chat/sessions", `{"message": "5 days in Tokyo"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		var resp types.ChatResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, sessionID, resp.SessionID)
		assert.True(t, resp.IsNewSession)
		mockService.AssertExpectations(t)
	})

	t.Run("empty message is a bad request", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()

		rr := postJSON(t, router, "/chat/sessions", `{"message": "   "}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "StartSession")
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		router, _ := setupPlannerHandlerTest()

		rr := postJSON(t, router, "/chat/sessions", `{"message": `)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("model outage maps to 502 with try-again message", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()
		mockService.On("StartSession", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("all planning calls failed: %w", types.ErrLLMUnavailable)).Once()

		rr := postJSON(t, router, "/chat/sessions", `{"message": "5 days in Tokyo"}`)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "Please try again")
	})
}

func TestContinueChatSessionHandler(t *testing.T) {
	t.Run("valid turn returns the assistant reply", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()
		sessionID := uuid.New()
		mockService.On("ContinueSession", mock.Anything, sessionID, "4 days").Return(&types.ChatResponse{
			SessionID: sessionID,
			Message:   "Here is your plan...",
		}, nil).Once()

		rr := postJSON(t, router, "/chat/sessions/"+sessionID.String()+"/messages", `{"message": "4 days"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp types.ChatResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Here is your plan...", resp.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid session ID is a bad request", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()

		rr := postJSON(t, router, "/chat/sessions/not-a-uuid/messages", `{"message": "4 days"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "ContinueSession")
	})

	t.Run("unknown session is a 404", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()
		sessionID := uuid.New()
		mockService.On("ContinueSession", mock.Anything, sessionID, mock.Anything).
			Return(nil, types.ErrSessionNotFound).Once()

		rr := postJSON(t, router, "/chat/sessions/"+sessionID.String()+"/messages", `{"message": "4 days"}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetChatSessionHandler(t *testing.T) {
	t.Run("returns the session transcript", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()
		sessionID := uuid.New()
		mockService.On("GetSession", mock.Anything, sessionID).Return(&types.PlannerSession{
			ID: sessionID,
			Messages: []types.ConversationMessage{
				{Role: types.RoleUser, Content: "5 days in Tokyo"},
			},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/chat/sessions/"+sessionID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var session types.PlannerSession
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
		assert.Equal(t, sessionID, session.ID)
		require.Len(t, session.Messages, 1)
	})

	t.Run("expired session is a 404", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()
		sessionID := uuid.New()
		mockService.On("GetSession", mock.Anything, sessionID).
			Return(nil, types.ErrSessionNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/chat/sessions/"+sessionID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEndChatSessionHandler(t *testing.T) {
	t.Run("deleting a session returns no content", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()
		sessionID := uuid.New()
		mockService.On("EndSession", mock.Anything, sessionID).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/chat/sessions/"+sessionID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("unknown session is a 404", func(t *testing.T) {
		router, mockService := setupPlannerHandlerTest()
		sessionID := uuid.New()
		mockService.On("EndSession", mock.Anything, sessionID).
			Return(types.ErrSessionNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/chat/sessions/"+sessionID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
