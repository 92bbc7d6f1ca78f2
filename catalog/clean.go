package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	rateSuffix  = regexp.MustCompile(`/\s*5\s*$`)
	headerAlias = map[string]string{
		"approx_cost(for_two_people)": "approx_cost",
		"approx_cost(for two people)": "approx_cost",
		"listed_in(type)":             "listed_in_type",
		"listed_in(city)":             "listed_in_city",
	}
)

// NormalizeHeader maps a raw dataset column name onto its canonical snake_case form.
func NormalizeHeader(h string) string {
	h = whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
	if alias, ok := headerAlias[h]; ok {
		return alias
	}
	if strings.HasPrefix(h, "approx_cost") {
		return "approx_cost"
	}

	return h
}

// CleanRate parses ratings such as "4.1/5" or "4.1". Sentinels like "NEW" or "-"
// and anything outside [0, 5] are unknown.
func CleanRate(raw string) *float64 {
	s := strings.TrimSpace(rateSuffix.ReplaceAllString(strings.TrimSpace(raw), ""))
	switch strings.ToLower(s) {
	case "", "new", "-", "nan":
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 5 {
		return nil
	}

	return &v
}

// CleanCost parses costs such as "1,500" or "800.0".
func CleanCost(raw string) *int {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}

	cost := int(v)
	return &cost
}

// CleanVotes parses a vote count, defaulting to 0.
func CleanVotes(raw string) int {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}

	return int(v)
}

// CleanCuisines splits a comma-delimited cuisine field into lowercase tags.
func CleanCuisines(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || tag == "nan" {
			continue
		}
		tags = append(tags, tag)
	}

	return tags
}
