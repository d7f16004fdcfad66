package conversation

import (
	"fmt"
	"strings"

	"github.com/roamerhq/roamer/internal/types"
)

const (
	systemExtractor = "You are a data extractor. Return ONLY valid JSON. Never infer or provide defaults."
	systemAnalyst   = "You are a travel information analyst. Respond only with valid JSON."
	systemAssistant = `You are a friendly travel assistant. Respond with JSON: {"question": "your question here"}`
)

func parseTravelDetailsPrompt(userInput string) string {
	return fmt.Sprintf(`EXTRACT ONLY explicitly mentioned information. DO NOT infer or guess.

User input: '%s'

Return JSON with ONLY the fields explicitly mentioned:
- destination: string or null
- duration: number (days) or null
- interests: list of strings or null
- budget: string or null
- travel_type: string or null

RULES:
1. If a field is NOT explicitly mentioned, set it to null
2. Do NOT provide default values
3. Do NOT guess or infer missing information
4. Only extract exact information that appears in the input

Examples:
Input: "Paris"
{"destination": "Paris", "duration": null, "interests": null, "budget": null, "travel_type": null}

Input: "Tokyo for 5 days"
{"destination": "Tokyo", "duration": 5, "interests": null, "budget": null, "travel_type": null}

Input: "Barcelona, 3 days, love hiking"
{"destination": "Barcelona", "duration": 3, "interests": ["hiking"], "budget": null, "travel_type": null}`, userInput)
}

func analyzeMissingInfoPrompt(userInput string) string {
	return fmt.Sprintf(`Analyze this travel request and identify what information is clearly provided vs what's missing or unclear:

Request: '%s'

Respond with JSON containing:
- provided: list of fields that are clearly mentioned (e.g., ["destination", "duration"])
- missing: list of fields that are not mentioned (e.g., ["interests", "budget"])
- unclear: dict of fields with conflicting or ambiguous information (e.g., {"interests": "mentioned but vague"})
- confidence: overall confidence score 0-100 that we understand the full request

Example: {"provided": ["destination", "interests"], "missing": ["duration"], "unclear": {}, "confidence": 75}`, userInput)
}

func followupQuestionPrompt(details *types.TravelRequest, missing, alreadyAsked []string) string {
	known := describeKnownFields(details)
	asked := "nothing yet"
	if len(alreadyAsked) > 0 {
		asked = strings.Join(alreadyAsked, ", ")
	}

	return fmt.Sprintf(`Generate a friendly, concise follow-up question to gather missing travel information.

What we know: %s
What's missing: %s
What we've already asked about: %s

Generate ONE natural follow-up question (max 2 sentences) to gather the most important missing information.
Ask about the most critical missing field first (priority: duration > interests > budget > travel_type).
Make it conversational, not robotic.

Example responses:
"How many days are you planning to spend there?"
"What kind of activities interest you most? (e.g., culture, food, adventure, relaxation)"
"Are you traveling solo, with a partner, or with family?"

Question:`, known, strings.Join(missing, ", "), asked)
}

func describeKnownFields(details *types.TravelRequest) string {
	if details == nil {
		return "nothing yet"
	}
	var parts []string
	if details.Destination != "" {
		parts = append(parts, fmt.Sprintf("destination=%s", details.Destination))
	}
	if details.DurationDays > 0 {
		parts = append(parts, fmt.Sprintf("duration=%d days", details.DurationDays))
	}
	if len(details.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("interests=[%s]", strings.Join(details.Interests, ", ")))
	}
	if details.Budget != "" {
		parts = append(parts, fmt.Sprintf("budget=%s", details.Budget))
	}
	if details.TravelType != "" {
		parts = append(parts, fmt.Sprintf("travel_type=%s", details.TravelType))
	}
	if len(parts) == 0 {
		return "nothing yet"
	}
	return strings.Join(parts, ", ")
}
