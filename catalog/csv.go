package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/imkonsowa/restaurant-recommender/models"
)

var requiredColumns = []string{"name", "location", "cuisines"}

// LoadCSV reads a raw or already-cleaned dataset export and returns the cleaned records.
func LoadCSV(path string) ([]models.Restaurant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog csv %s: %w", path, err)
	}

	return records, nil
}

// ReadCSV cleans rows as they are read: rows missing a name, location or cuisines
// are dropped, and only the first row per (name, location) pair is kept.
func ReadCSV(r io.Reader) ([]models.Restaurant, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv: missing header")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("missing required column %q", c)
		}
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		records []models.Restaurant
		seen    = make(map[string]struct{})
		total   int
		dropped int
		dupes   int
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", total+2, err)
		}
		total++

		restaurant := models.Restaurant{
			Name:       field(row, "name"),
			Location:   field(row, "location"),
			Cuisines:   CleanCuisines(field(row, "cuisines")),
			Rate:       CleanRate(field(row, "rate")),
			ApproxCost: CleanCost(field(row, "approx_cost")),
			Votes:      CleanVotes(field(row, "votes")),
			RestType:   field(row, "rest_type"),
		}
		if restaurant.Validate() != nil {
			dropped++
			continue
		}

		key := strings.ToLower(restaurant.Name) + "\x00" + strings.ToLower(restaurant.Location)
		if _, ok := seen[key]; ok {
			dupes++
			continue
		}
		seen[key] = struct{}{}

		records = append(records, restaurant)
	}

	slog.Debug("cleaned catalog csv", "rows", total, "dropped", dropped, "duplicates", dupes, "kept", len(records))

	return records, nil
}
