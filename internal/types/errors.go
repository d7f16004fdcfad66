package types

import "errors"

var (
	// ErrLLMUnavailable wraps transport or auth failures reaching the model
	// API. Surfaced to the user as a generic "try again" message.
	ErrLLMUnavailable = errors.New("language model unavailable")

	// ErrMalformedAIResponse means the model replied with something that is
	// not the expected JSON shape. Surfaced as a prompt to rephrase.
	ErrMalformedAIResponse = errors.New("malformed response from language model")

	// ErrDestinationRequired is returned when extraction yields no
	// destination at all.
	ErrDestinationRequired = errors.New("destination is required")

	ErrSessionNotFound = errors.New("chat session not found")
)
