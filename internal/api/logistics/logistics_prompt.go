package logistics

import "fmt"

const (
	systemTravelPlanner  = "You are an expert travel planner. Respond with valid JSON only."
	systemLogisticExpert = "You are a travel logistics expert. Respond with valid JSON only."
)

func createItineraryPrompt(destination string, durationDays int, attractionsJSON string) string {
	return fmt.Sprintf(`Create a detailed %d-day itinerary for %s using these attractions:
%s

Plan considering: travel time, opening hours, meals, rest times, and activity levels.

IMPORTANT: For each day's "title" field, provide ONLY the main activity or theme (e.g., "Arrival", "Museum Day", "Beach Exploration") WITHOUT any day number prefix. The display layer will automatically format it as "Day N: Title".

JSON structure: {"days": [{"day_number": "string", "title": "string", "activities": [{"time": "HH:MM", "activity": "string", "duration": "string"}], "meals": {"breakfast": "string", "lunch": "string", "dinner": "string"}, "notes": "string"}]}`,
		durationDays, destination, attractionsJSON)
}

func transportationPrompt(destination string) string {
	return fmt.Sprintf(`Provide practical transportation tips for visiting %s. Include best ways to get around, costs, apps, and safety tips.

JSON structure: {"transportation": [{"method": "string", "description": "string", "cost_estimate": "string like $10-20/day", "recommended_for": "string"}]}`,
		destination)
}
