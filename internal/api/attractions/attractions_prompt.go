package attractions

import (
	"fmt"
	"strings"
)

const systemTravelGuide = "You are a knowledgeable travel guide. Respond with valid JSON only."

func findAttractionsPrompt(destination string, interests []string, durationDays int) string {
	interestsStr := "general tourism"
	if len(interests) > 0 {
		interestsStr = strings.Join(interests, ", ")
	}
	return fmt.Sprintf(`As a travel expert, recommend top attractions and activities in %s for a %d-day trip.
Focus on these interests: %s.
Provide 3-5 recommendations with brief descriptions and estimated time needed for each.

JSON structure: {"attractions": [{ "name": "string", "description": "string", "hours_needed": "string like 2-3 hours", "category": "string" }]}`,
		destination, durationDays, interestsStr)
}
