package recommend

import (
	"context"
	"log/slog"
	"time"

	"github.com/imkonsowa/restaurant-recommender/metrics"
	"github.com/imkonsowa/restaurant-recommender/models"
)

const DefaultCompletionTimeout = 30 * time.Second

// Catalog is the read-only record source. Implementations must return the same
// immutable snapshot to every caller.
type Catalog interface {
	All() []models.Restaurant
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Engine runs the filter, fallback, prompt and completion pipeline. It holds no
// mutable state, so one Engine serves concurrent queries.
type Engine struct {
	catalog   Catalog
	completer Completer
	timeout   time.Duration
	logger    *slog.Logger
}

func NewEngine(catalog Catalog, completer Completer, timeout time.Duration, logger *slog.Logger) *Engine {
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		catalog:   catalog,
		completer: completer,
		timeout:   timeout,
		logger:    logger.With("component", "recommend"),
	}
}

// Recommend returns ErrNoData when the catalog is empty and wraps ErrInvalidRecord
// when a malformed record reaches the engine. A failed completion still yields a
// Result carrying the candidates.
func (e *Engine) Recommend(ctx context.Context, q Query) (*Result, error) {
	records := e.catalog.All()

	list, err := Filter(records, q)
	if err != nil {
		return nil, err
	}

	if list.Len() == 0 {
		list, err = Fallback(records)
		if err != nil {
			return nil, err
		}
	}

	if list.Len() == 0 {
		metrics.Recommendations.WithLabelValues(metrics.PathEmpty).Inc()
		e.logger.Warn("no data available", "place", q.Place)

		return Assemble(list, "", nil)
	}

	path := metrics.PathPrimary
	if list.Fallback {
		path = metrics.PathFallback
	}
	metrics.Recommendations.WithLabelValues(path).Inc()

	prompt := BuildPrompt(q, list)

	completionCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	narrative, err := e.completer.Complete(completionCtx, prompt)
	if err != nil {
		e.logger.Warn("completion failed, returning candidates without narrative",
			"place", q.Place,
			"candidates", list.Len(),
			"fallback", list.Fallback,
			"error", err,
		)
	} else {
		e.logger.Debug("recommendation complete",
			"place", q.Place,
			"candidates", list.Len(),
			"fallback", list.Fallback,
			"prompt_chars", len(prompt),
		)
	}

	return Assemble(list, narrative, err)
}
