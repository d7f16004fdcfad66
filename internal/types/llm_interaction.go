package types

import (
	"time"

	"github.com/google/uuid"
)

// LLMInteraction is one audited call to the language model API. Stored by
// the optional interactions repository when Postgres is configured.
type LLMInteraction struct {
	ID           uuid.UUID     `json:"id"`
	SessionID    *uuid.UUID    `json:"session_id,omitempty"`
	CallType     string        `json:"call_type"`
	ModelName    string        `json:"model_name"`
	Prompt       string        `json:"prompt"`
	ResponseText string        `json:"response_text"`
	Latency      time.Duration `json:"latency"`
	CreatedAt    time.Time     `json:"created_at"`
}
