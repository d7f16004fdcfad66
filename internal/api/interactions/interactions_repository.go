package interactions

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/roamerhq/roamer/internal/types"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*PostgresInteractionRepo)(nil)

// Repository stores audited model calls.
type Repository interface {
	SaveInteraction(ctx context.Context, interaction types.LLMInteraction) error
}

type PostgresInteractionRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresInteractionRepo(pgpool PgxPool, logger *slog.Logger) *PostgresInteractionRepo {
	return &PostgresInteractionRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresInteractionRepo) SaveInteraction(ctx context.Context, interaction types.LLMInteraction) error {
	query := `
        INSERT INTO llm_interactions (
            session_id, call_type, model_name, prompt, response_text, latency_ms
        ) VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.pgpool.Exec(ctx, query,
		interaction.SessionID, interaction.CallType, interaction.ModelName,
		interaction.Prompt, interaction.ResponseText, interaction.Latency.Milliseconds(),
	)
	return err
}
