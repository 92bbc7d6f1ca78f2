package recommend

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/imkonsowa/restaurant-recommender/models"
)

const (
	PrimaryLimit  = 10
	FallbackLimit = 20
)

var ErrInvalidRecord = errors.New("catalog contains an invalid record")

// CandidateList is an ordered selection of restaurants. Fallback is set when the
// list ignores the query's filters because nothing matched them.
type CandidateList struct {
	Restaurants []models.Restaurant
	Fallback    bool
}

func (c CandidateList) Len() int {
	return len(c.Restaurants)
}

// Filter keeps the records satisfying every supplied criterion, ranked and
// truncated to PrimaryLimit. An empty list is a normal outcome.
func Filter(records []models.Restaurant, q Query) (CandidateList, error) {
	place := strings.ToLower(q.Place)
	cuisine := strings.ToLower(q.Cuisine)

	var matched []models.Restaurant
	for i := range records {
		r := &records[i]
		if err := r.Validate(); err != nil {
			return CandidateList{}, fmt.Errorf("%w at position %d: %w", ErrInvalidRecord, i, err)
		}

		if !strings.Contains(strings.ToLower(r.Location), place) {
			continue
		}
		if cuisine != "" && !hasCuisine(r.Cuisines, cuisine) {
			continue
		}
		if q.MaxPrice != nil && (r.ApproxCost == nil || *r.ApproxCost > *q.MaxPrice) {
			continue
		}
		if q.MinRating != nil && (r.Rate == nil || *r.Rate < *q.MinRating) {
			continue
		}

		matched = append(matched, *r)
	}

	return CandidateList{Restaurants: rankTop(matched, PrimaryLimit)}, nil
}

// Fallback ranks the whole catalog, ignoring every filter, and keeps the top FallbackLimit.
func Fallback(records []models.Restaurant) (CandidateList, error) {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return CandidateList{}, fmt.Errorf("%w at position %d: %w", ErrInvalidRecord, i, err)
		}
	}

	return CandidateList{
		Restaurants: rankTop(slices.Clone(records), FallbackLimit),
		Fallback:    true,
	}, nil
}

func hasCuisine(tags []string, cuisine string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), cuisine) {
			return true
		}
	}

	return false
}

// rankTop sorts rs in place by rate desc (unknown last), then votes desc. The
// sort is stable so equal keys keep catalog order.
func rankTop(rs []models.Restaurant, limit int) []models.Restaurant {
	slices.SortStableFunc(rs, compareRank)
	if len(rs) > limit {
		rs = rs[:limit]
	}

	return rs
}

func compareRank(a, b models.Restaurant) int {
	switch {
	case a.Rate != nil && b.Rate == nil:
		return -1
	case a.Rate == nil && b.Rate != nil:
		return 1
	case a.Rate != nil && *a.Rate != *b.Rate:
		if *a.Rate > *b.Rate {
			return -1
		}
		return 1
	}

	switch {
	case a.Votes > b.Votes:
		return -1
	case a.Votes < b.Votes:
		return 1
	}

	return 0
}
