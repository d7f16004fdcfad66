package types

import "strings"

// TravelRequest is the structured record extracted incrementally from the
// user's free-text messages. Destination, DurationDays and Interests are
// required before planning proceeds; Budget and TravelType are optional.
type TravelRequest struct {
	Destination  string   `json:"destination"`
	DurationDays int      `json:"duration_days"`
	Interests    []string `json:"interests"`
	Budget       string   `json:"budget,omitempty"`
	TravelType   string   `json:"travel_type,omitempty"`
}

// Complete reports whether all required fields are populated.
func (r *TravelRequest) Complete() bool {
	return r != nil &&
		strings.TrimSpace(r.Destination) != "" &&
		r.DurationDays > 0 &&
		len(r.Interests) > 0
}

// MissingFields returns the required fields still absent, in follow-up
// priority order (duration before interests).
func (r *TravelRequest) MissingFields() []string {
	var missing []string
	if r == nil || strings.TrimSpace(r.Destination) == "" {
		missing = append(missing, FieldDestination)
	}
	if r == nil || r.DurationDays <= 0 {
		missing = append(missing, FieldDuration)
	}
	if r == nil || len(r.Interests) == 0 {
		missing = append(missing, FieldInterests)
	}
	return missing
}

// Merge overlays non-empty fields from other onto r. Later turns refine the
// accumulated request without erasing earlier answers.
func (r *TravelRequest) Merge(other *TravelRequest) {
	if other == nil {
		return
	}
	if strings.TrimSpace(other.Destination) != "" {
		r.Destination = other.Destination
	}
	if other.DurationDays > 0 {
		r.DurationDays = other.DurationDays
	}
	if len(other.Interests) > 0 {
		r.Interests = other.Interests
	}
	if other.Budget != "" {
		r.Budget = other.Budget
	}
	if other.TravelType != "" {
		r.TravelType = other.TravelType
	}
}

// Field names used across extraction, analysis and follow-up generation.
const (
	FieldDestination = "destination"
	FieldDuration    = "duration"
	FieldInterests   = "interests"
	FieldBudget      = "budget"
	FieldTravelType  = "travel_type"
)

// RequestAnalysis is the model's assessment of which fields a message
// provided versus left missing or ambiguous.
type RequestAnalysis struct {
	Provided   []string          `json:"provided"`
	Missing    []string          `json:"missing"`
	Unclear    map[string]string `json:"unclear"`
	Confidence int               `json:"confidence"`
}

// Attraction is one recommended sight or activity.
type Attraction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HoursNeeded string `json:"hours_needed"`
	Category    string `json:"category"`
}

type AttractionList struct {
	Attractions []Attraction `json:"attractions"`
}

// DayActivity is a single scheduled entry within a day plan.
type DayActivity struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Duration string `json:"duration"`
}

type DayMeals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// ItineraryDay holds one day of the schedule. Title carries only the theme
// ("Arrival", "Museum Day"); rendering prepends the day number.
type ItineraryDay struct {
	DayNumber  string        `json:"day_number"`
	Title      string        `json:"title"`
	Activities []DayActivity `json:"activities"`
	Meals      DayMeals      `json:"meals"`
	Notes      string        `json:"notes,omitempty"`
}

type Itinerary struct {
	Days []ItineraryDay `json:"days"`
}

// TransportOption describes one way of getting around the destination.
type TransportOption struct {
	Method         string `json:"method"`
	Description    string `json:"description"`
	CostEstimate   string `json:"cost_estimate"`
	RecommendedFor string `json:"recommended_for"`
}

type TransportationGuide struct {
	Transportation []TransportOption `json:"transportation"`
}

// TravelPlan is the assembled output of the three planning calls. Sections
// that could not be fetched stay empty and the failure is noted in Warnings.
type TravelPlan struct {
	Details     TravelRequest       `json:"details"`
	Attractions AttractionList      `json:"attractions"`
	Itinerary   Itinerary           `json:"itinerary"`
	Transport   TransportationGuide `json:"transport"`
	Warnings    []string            `json:"warnings,omitempty"`
}
