package recommend

import (
	"fmt"
	"testing"

	"github.com/imkonsowa/restaurant-recommender/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func restaurant(name, location string, rate *float64, votes int, cost *int, cuisines ...string) models.Restaurant {
	if len(cuisines) == 0 {
		cuisines = []string{"north indian"}
	}

	return models.Restaurant{
		Name:       name,
		Location:   location,
		Cuisines:   cuisines,
		Rate:       rate,
		ApproxCost: cost,
		Votes:      votes,
	}
}

func names(rs []models.Restaurant) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func sampleCatalog() []models.Restaurant {
	return []models.Restaurant{
		restaurant("Truffles", "Koramangala 5th Block", ptr(4.7), 14726, ptr(900), "cafe", "american", "burger"),
		restaurant("Jalsa", "Banashankari", ptr(4.1), 775, ptr(800), "north indian", "mughlai", "chinese"),
		restaurant("Onesta", "Koramangala 6th Block", ptr(4.4), 3000, ptr(600), "pizza", "cafe", "italian"),
		restaurant("Empire", "koramangala 7th block", ptr(3.9), 5000, ptr(750), "north indian", "mughlai"),
		restaurant("New Place", "Koramangala 5th Block", nil, 0, nil, "south indian"),
		restaurant("Meghana Foods", "Jayanagar", ptr(4.4), 9000, ptr(600), "biryani", "andhra"),
	}
}

func TestFilter_KoramangalaExample(t *testing.T) {
	records := []models.Restaurant{
		restaurant("A", "Koramangala", ptr(4.5), 10, nil),
		restaurant("B", "Koramangala", ptr(4.5), 50, nil),
		restaurant("C", "Koramangala", ptr(3.0), 1000, nil),
	}

	list, err := Filter(records, Query{Place: "Koramangala"})
	require.NoError(t, err)

	assert.False(t, list.Fallback)
	assert.Equal(t, []string{"B", "A", "C"}, names(list.Restaurants))
}

func TestFilter_PlaceOnlyMatchesSubstringCaseInsensitive(t *testing.T) {
	list, err := Filter(sampleCatalog(), Query{Place: "KORAMANGALA"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Truffles", "Onesta", "Empire", "New Place"}, names(list.Restaurants))
}

func TestFilter_UnknownRateSortsLast(t *testing.T) {
	records := []models.Restaurant{
		restaurant("unrated-popular", "X", nil, 99999, nil),
		restaurant("zero", "X", ptr(0.0), 0, nil),
		restaurant("unrated", "X", nil, 0, nil),
		restaurant("rated", "X", ptr(2.5), 1, nil),
	}

	list, err := Filter(records, Query{Place: "x"})
	require.NoError(t, err)

	assert.Equal(t, []string{"rated", "zero", "unrated-popular", "unrated"}, names(list.Restaurants))
}

func TestFilter_TiesKeepCatalogOrder(t *testing.T) {
	var records []models.Restaurant
	for i := 0; i < 8; i++ {
		records = append(records, restaurant(fmt.Sprintf("r%d", i), "Indiranagar", ptr(4.0), 100, nil))
	}

	list, err := Filter(records, Query{Place: "indiranagar"})
	require.NoError(t, err)

	assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7"}, names(list.Restaurants))
}

func TestFilter_TruncatesToPrimaryLimit(t *testing.T) {
	var records []models.Restaurant
	for i := 0; i < 25; i++ {
		records = append(records, restaurant(fmt.Sprintf("r%02d", i), "BTM", ptr(float64(i%5)), i, nil))
	}

	list, err := Filter(records, Query{Place: "btm"})
	require.NoError(t, err)
	require.Len(t, list.Restaurants, PrimaryLimit)

	for i := 1; i < list.Len(); i++ {
		assert.LessOrEqual(t, compareRank(list.Restaurants[i-1], list.Restaurants[i]), 0)
	}
}

func TestFilter_Criteria(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "cuisine substring on any tag",
			query: Query{Place: "koramangala", Cuisine: "Cafe"},
			want:  []string{"Truffles", "Onesta"},
		},
		{
			name:  "cuisine partial tag",
			query: Query{Place: "koramangala", Cuisine: "indian"},
			want:  []string{"Empire", "New Place"},
		},
		{
			name:  "max price excludes unknown cost",
			query: Query{Place: "koramangala", MaxPrice: ptr(800)},
			want:  []string{"Onesta", "Empire"},
		},
		{
			name:  "max price is inclusive",
			query: Query{Place: "koramangala", MaxPrice: ptr(900)},
			want:  []string{"Truffles", "Onesta", "Empire"},
		},
		{
			name:  "min rating excludes unknown rate and is inclusive",
			query: Query{Place: "koramangala", MinRating: ptr(4.4)},
			want:  []string{"Truffles", "Onesta"},
		},
		{
			name:  "all filters",
			query: Query{Place: "koramangala", Cuisine: "italian", MaxPrice: ptr(600), MinRating: ptr(4.0)},
			want:  []string{"Onesta"},
		},
		{
			name:  "zero max price",
			query: Query{Place: "koramangala", MaxPrice: ptr(0)},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Filter(sampleCatalog(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(list.Restaurants))
			assert.False(t, list.Fallback)
		})
	}
}

func TestFilter_Monotonic(t *testing.T) {
	catalog := sampleCatalog()
	count := func(q Query) int {
		list, err := Filter(catalog, q)
		require.NoError(t, err)
		return list.Len()
	}

	base := Query{Place: "a"}
	prev := count(base)
	for _, rating := range []float64{0, 3.5, 4.0, 4.4, 4.5, 5} {
		q := base
		q.MinRating = ptr(rating)
		n := count(q)
		assert.LessOrEqual(t, n, prev, "min_rating %v", rating)
		prev = n
	}

	prev = count(base)
	for _, price := range []int{10000, 900, 800, 600, 100, 0} {
		q := base
		q.MaxPrice = ptr(price)
		n := count(q)
		assert.LessOrEqual(t, n, prev, "max_price %d", price)
		prev = n
	}

	withCuisine := base
	withCuisine.Cuisine = "mughlai"
	assert.LessOrEqual(t, count(withCuisine), count(base))
}

func TestFilter_DoesNotMutateCatalog(t *testing.T) {
	catalog := sampleCatalog()
	before := names(catalog)

	_, err := Filter(catalog, Query{Place: "koramangala"})
	require.NoError(t, err)
	_, err = Fallback(catalog)
	require.NoError(t, err)

	assert.Equal(t, before, names(catalog))
}

func TestFilter_InvalidRecord(t *testing.T) {
	catalog := sampleCatalog()
	catalog[2].Cuisines = nil

	_, err := Filter(catalog, Query{Place: "koramangala"})
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.ErrorIs(t, err, models.ErrInvalidRestaurant)

	_, err = Fallback(catalog)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestFallback(t *testing.T) {
	list, err := Fallback(sampleCatalog())
	require.NoError(t, err)

	assert.True(t, list.Fallback)
	assert.Equal(t, []string{"Truffles", "Meghana Foods", "Onesta", "Jalsa", "Empire", "New Place"}, names(list.Restaurants))
}

func TestFallback_TruncatesToFallbackLimit(t *testing.T) {
	var records []models.Restaurant
	for i := 0; i < 50; i++ {
		records = append(records, restaurant(fmt.Sprintf("r%02d", i), fmt.Sprintf("area %d", i), ptr(float64(i%6)*0.9), i, nil))
	}

	list, err := Fallback(records)
	require.NoError(t, err)
	require.Len(t, list.Restaurants, FallbackLimit)
	assert.True(t, list.Fallback)
	assert.Equal(t, "r47", list.Restaurants[0].Name)
}

func TestFallback_EmptyCatalog(t *testing.T) {
	list, err := Fallback(nil)
	require.NoError(t, err)
	assert.Zero(t, list.Len())
}
