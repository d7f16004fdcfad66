package interactions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roamerhq/roamer/internal/types"
)

func TestSessionIDContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		sessionID := uuid.New()
		ctx := WithSessionID(context.Background(), sessionID)

		got, ok := SessionIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, sessionID, got)
	})

	t.Run("absent value", func(t *testing.T) {
		_, ok := SessionIDFromContext(context.Background())
		assert.False(t, ok)
	})
}

func TestPostgresInteractionRepo_SaveInteraction(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessionID := uuid.New()

	interaction := types.LLMInteraction{
		SessionID:    &sessionID,
		CallType:     "parse_details",
		ModelName:    "gemini-2.0-flash",
		Prompt:       "Extract travel information...",
		ResponseText: `{"destination": "Tokyo"}`,
		Latency:      1500 * time.Millisecond,
	}

	t.Run("inserts one row", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectExec("INSERT INTO llm_interactions").
			WithArgs(interaction.SessionID, interaction.CallType, interaction.ModelName,
				interaction.Prompt, interaction.ResponseText, int64(1500)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewPostgresInteractionRepo(mockDB, logger)
		require.NoError(t, repo.SaveInteraction(context.Background(), interaction))
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectExec("INSERT INTO llm_interactions").
			WithArgs(interaction.SessionID, interaction.CallType, interaction.ModelName,
				interaction.Prompt, interaction.ResponseText, int64(1500)).
			WillReturnError(errors.New("connection refused"))

		repo := NewPostgresInteractionRepo(mockDB, logger)
		assert.Error(t, repo.SaveInteraction(context.Background(), interaction))
		require.NoError(t, mockDB.ExpectationsWereMet())
	})
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveInteraction(ctx context.Context, interaction types.LLMInteraction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func TestRepositoryRecorder_RecordInteraction(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("attaches the session ID from context", func(t *testing.T) {
		repo := new(MockRepository)
		sessionID := uuid.New()
		repo.On("SaveInteraction", mock.Anything, mock.MatchedBy(func(entry types.LLMInteraction) bool {
			return entry.SessionID != nil && *entry.SessionID == sessionID
		})).Return(nil).Once()

		recorder := NewRepositoryRecorder(repo, logger)
		ctx := WithSessionID(context.Background(), sessionID)
		recorder.RecordInteraction(ctx, types.LLMInteraction{CallType: "followup"})

		repo.AssertExpectations(t)
	})

	t.Run("records without a session when none is in context", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("SaveInteraction", mock.Anything, mock.MatchedBy(func(entry types.LLMInteraction) bool {
			return entry.SessionID == nil
		})).Return(nil).Once()

		recorder := NewRepositoryRecorder(repo, logger)
		recorder.RecordInteraction(context.Background(), types.LLMInteraction{CallType: "attractions"})

		repo.AssertExpectations(t)
	})

	t.Run("swallows repository errors", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).
			Return(errors.New("connection refused")).Once()

		recorder := NewRepositoryRecorder(repo, logger)
		assert.NotPanics(t, func() {
			recorder.RecordInteraction(context.Background(), types.LLMInteraction{CallType: "itinerary"})
		})
	})
}
