package recommend

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	SystemFraming = "You are an expert food critic and restaurant guide helping a user decide where to eat."

	FallbackNotice = "No restaurant matched all of these preferences exactly. The list below is a broader set of " +
		"the top-rated restaurants across the whole catalog instead. Tell the user plainly that their exact " +
		"filters were not met before recommending from it."

	closingInstructions = "Write a concise, engaging summary of why these restaurants are good choices for this user. " +
		"For each one, mention its standout quality and how it fits the preferences. Use a numbered list " +
		"matching the order above and only use the data given. Keep the total response under 300 words."
)

// promptCandidate fixes the field set and order of the rendered candidates.
type promptCandidate struct {
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Cuisines   []string `json:"cuisines"`
	Rate       *float64 `json:"rate"`
	ApproxCost *int     `json:"approx_cost"`
}

// BuildPrompt renders q and list into the completion prompt. It is a pure
// function: equal inputs give byte-identical output.
func BuildPrompt(q Query, list CandidateList) string {
	var b strings.Builder

	b.WriteString(SystemFraming)
	b.WriteString("\n\nThe user is looking for restaurant recommendations with these preferences:\n")
	for _, line := range criteria(q) {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if list.Fallback {
		b.WriteString("\n")
		b.WriteString(FallbackNotice)
		b.WriteString("\n")
	}

	b.WriteString("\nRestaurants, best ranked first, one JSON object per line:\n")
	for i, r := range list.Restaurants {
		line, err := json.Marshal(promptCandidate{
			Name:       r.Name,
			Location:   r.Location,
			Cuisines:   r.Cuisines,
			Rate:       r.Rate,
			ApproxCost: r.ApproxCost,
		})
		if err != nil {
			// strings, ints and finite floats always marshal
			panic(fmt.Sprintf("render candidate %q: %v", r.Name, err))
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}

	b.WriteString("\n")
	b.WriteString(closingInstructions)

	return b.String()
}

// criteria restates only the filters the user actually supplied.
func criteria(q Query) []string {
	lines := []string{"Location: " + q.Place}
	if q.Cuisine != "" {
		lines = append(lines, "Cuisine: "+q.Cuisine)
	}
	if q.MaxPrice != nil {
		lines = append(lines, fmt.Sprintf("Budget: up to %d for two people", *q.MaxPrice))
	}
	if q.MinRating != nil {
		lines = append(lines, "Minimum rating: "+strconv.FormatFloat(*q.MinRating, 'f', -1, 64)+" out of 5")
	}

	return lines
}
