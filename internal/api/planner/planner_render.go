package planner

import (
	"fmt"
	"strings"

	"github.com/roamerhq/roamer/internal/types"
)

// RenderPlan formats the assembled plan as markdown for the chat front-end.
func RenderPlan(plan *types.TravelPlan) string {
	var b strings.Builder

	renderWarnings(&b, plan.Warnings)
	renderSummary(&b, &plan.Details)
	renderAttractions(&b, &plan.Attractions)
	renderItinerary(&b, &plan.Itinerary)
	renderTransportation(&b, &plan.Transport)

	b.WriteString("\nHave a great trip!\n")
	return b.String()
}

func renderWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("> Some information could not be fetched:\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "> - %s\n", w)
	}
	b.WriteString("\n")
}

func renderSummary(b *strings.Builder, details *types.TravelRequest) {
	fmt.Fprintf(b, "# Your %d-day trip to %s\n\n", details.DurationDays, details.Destination)
	fmt.Fprintf(b, "- **Destination:** %s\n", details.Destination)
	fmt.Fprintf(b, "- **Duration:** %d days\n", details.DurationDays)
	fmt.Fprintf(b, "- **Interests:** %s\n", formatInterests(details.Interests))
	if details.Budget != "" {
		fmt.Fprintf(b, "- **Budget:** %s\n", details.Budget)
	}
	if details.TravelType != "" {
		fmt.Fprintf(b, "- **Travel type:** %s\n", details.TravelType)
	}
	b.WriteString("\n")
}

func renderAttractions(b *strings.Builder, list *types.AttractionList) {
	b.WriteString("## Top Attractions\n\n")
	if len(list.Attractions) == 0 {
		b.WriteString("No attractions fetched.\n\n")
		return
	}
	b.WriteString("| Attraction | Category | Duration | Description |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, a := range list.Attractions {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			orNA(a.Name), orNA(a.Category), orNA(a.HoursNeeded), orNA(a.Description))
	}
	b.WriteString("\n")
}

func renderItinerary(b *strings.Builder, itinerary *types.Itinerary) {
	b.WriteString("## Day-by-Day Itinerary\n\n")
	if len(itinerary.Days) == 0 {
		b.WriteString("No itinerary created.\n\n")
		return
	}
	for _, day := range itinerary.Days {
		fmt.Fprintf(b, "### %s\n\n", formatDayLabel(day.DayNumber, day.Title))
		if len(day.Activities) > 0 {
			b.WriteString("| Time | Activity | Duration |\n")
			b.WriteString("|---|---|---|\n")
			for _, act := range day.Activities {
				fmt.Fprintf(b, "| %s | %s | %s |\n",
					orNA(act.Time), orNA(act.Activity), orNA(act.Duration))
			}
			b.WriteString("\n")
		}
		if day.Meals != (types.DayMeals{}) {
			fmt.Fprintf(b, "**Meals:** breakfast: %s · lunch: %s · dinner: %s\n\n",
				orTBD(day.Meals.Breakfast), orTBD(day.Meals.Lunch), orTBD(day.Meals.Dinner))
		}
		if day.Notes != "" {
			fmt.Fprintf(b, "**Notes:** %s\n\n", day.Notes)
		}
	}
}

func renderTransportation(b *strings.Builder, guide *types.TransportationGuide) {
	b.WriteString("## Getting Around\n\n")
	if len(guide.Transportation) == 0 {
		b.WriteString("No transportation options fetched.\n\n")
		return
	}
	b.WriteString("| Method | Description | Cost | Recommended For |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, t := range guide.Transportation {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			orNA(t.Method), orNA(t.Description), orNA(t.CostEstimate), orNA(t.RecommendedFor))
	}
	b.WriteString("\n")
}

// formatDayLabel prepends "Day N: " unless the title already carries it.
func formatDayLabel(dayNumber, title string) string {
	if strings.HasPrefix(strings.TrimSpace(title), fmt.Sprintf("Day %s", dayNumber)) {
		return title
	}
	return fmt.Sprintf("Day %s: %s", dayNumber, title)
}

func formatInterests(interests []string) string {
	if len(interests) == 0 {
		return "Not specified"
	}
	return strings.Join(interests, ", ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func orTBD(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBD"
	}
	return s
}
