package types

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ConversationMessage is one turn of the chat transcript.
type ConversationMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// PlannerSession accumulates extracted travel details and transcript across
// turns. It lives only in the in-memory session cache; nothing here is
// persisted.
type PlannerSession struct {
	ID          uuid.UUID             `json:"id"`
	Details     TravelRequest         `json:"details"`
	AskedFields []string              `json:"asked_fields"`
	Messages    []ConversationMessage `json:"messages"`
	Plan        *TravelPlan           `json:"plan,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// AlreadyAsked reports whether a follow-up for the given field was issued in
// an earlier turn.
func (s *PlannerSession) AlreadyAsked(field string) bool {
	for _, f := range s.AskedFields {
		if f == field {
			return true
		}
	}
	return false
}

// Request/response types for the chat API.
type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	SessionID     uuid.UUID   `json:"session_id"`
	Message       string      `json:"message"`
	NeedsMoreInfo bool        `json:"needs_more_info"`
	MissingFields []string    `json:"missing_fields,omitempty"`
	Confidence    int         `json:"confidence,omitempty"`
	Plan          *TravelPlan `json:"plan,omitempty"`
	IsNewSession  bool        `json:"is_new_session"`
}
