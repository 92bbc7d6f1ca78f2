package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/imkonsowa/restaurant-recommender/config"
	"github.com/imkonsowa/restaurant-recommender/models"
)

// Store is the process-wide catalog. It is filled once by NewStore and never
// mutated afterwards, so concurrent readers need no locking.
type Store struct {
	records []models.Restaurant
	places  []string
}

func NewStore(records []models.Restaurant) *Store {
	s := &Store{records: slices.Clone(records)}

	seen := make(map[string]struct{})
	for _, r := range s.records {
		if _, ok := seen[r.Location]; ok {
			continue
		}
		seen[r.Location] = struct{}{}
		s.places = append(s.places, r.Location)
	}
	sort.Strings(s.places)

	return s
}

// All returns the catalog in load order. Callers must treat the slice as read-only.
func (s *Store) All() []models.Restaurant {
	return s.records
}

func (s *Store) Len() int {
	return len(s.records)
}

// Places returns the distinct locations, sorted.
func (s *Store) Places() []string {
	return slices.Clone(s.places)
}

// Open loads the catalog from the source named in cfg.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	var (
		records []models.Restaurant
		err     error
	)

	switch cfg.Catalog.Source {
	case "postgres":
		db, openErr := OpenPostgres(cfg.Postgres.ConnStr())
		if openErr != nil {
			return nil, openErr
		}
		records, err = LoadPostgres(ctx, db)
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	case "csv":
		records, err = LoadCSV(cfg.Catalog.Path)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
	if err != nil {
		return nil, err
	}

	store := NewStore(records)
	slog.Info("catalog loaded", "source", cfg.Catalog.Source, "records", store.Len(), "places", len(store.places))

	return store, nil
}
