package interactions

import (
	"context"
	"log/slog"

	"github.com/roamerhq/roamer/internal/types"
)

// RepositoryRecorder writes each model call to the repository. Failures are
// logged and swallowed so auditing never breaks the call path.
type RepositoryRecorder struct {
	logger *slog.Logger
	repo   Repository
}

func NewRepositoryRecorder(repo Repository, logger *slog.Logger) *RepositoryRecorder {
	return &RepositoryRecorder{
		logger: logger,
		repo:   repo,
	}
}

func (r *RepositoryRecorder) RecordInteraction(ctx context.Context, entry types.LLMInteraction) {
	if sessionID, ok := SessionIDFromContext(ctx); ok {
		entry.SessionID = &sessionID
	}
	if err := r.repo.SaveInteraction(ctx, entry); err != nil {
		r.logger.WarnContext(ctx, "Failed to record LLM interaction",
			slog.String("call_type", entry.CallType),
			slog.Any("error", err),
		)
	}
}

// NoopRecorder is used when no Postgres backend is configured.
type NoopRecorder struct{}

func (NoopRecorder) RecordInteraction(ctx context.Context, entry types.LLMInteraction) {}
