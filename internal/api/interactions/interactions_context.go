package interactions

import (
	"context"

	"github.com/google/uuid"
)

type sessionIDKey struct{}

// WithSessionID tags the context so every model call made during a turn is
// attributed to its chat session in the interaction log.
func WithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(uuid.UUID)
	return id, ok
}
