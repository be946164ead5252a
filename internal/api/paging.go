package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/polyfolio/pnl-data/internal/metrics"
)

// PageConfig holds pagination settings for one logical dataset.
type PageConfig struct {
	// PageSize is the default number of items requested per page.
	PageSize int

	// MaxOffset is the server-side hard cap on the page offset
	// (0 = no cap). The subgraph rejects offsets beyond 10,000; when a
	// fetch has progressed far enough that page × PageSize would cross
	// the cap, the page size shrinks to cap / page so later pages stay
	// legal, trading per-page completeness for coverage depth.
	MaxOffset int

	// PageDelay is the courtesy pause between successful pages.
	PageDelay time.Duration

	// Source labels log lines and metrics for this dataset.
	Source string
}

// PageFunc fetches one page of items at the given offset and limit.
type PageFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// FetchAllPages retrieves one logical dataset across pages.
//
// The loop stops on an empty page or a page shorter than requested
// (last page). Page requests are already retried by the caller's
// PageFunc; when a page still fails after retries the fetch aborts and
// returns whatever was accumulated. Errors never propagate past this
// boundary: partial data beats no data.
func FetchAllPages[T any](ctx context.Context, cfg PageConfig, fetch PageFunc[T], logger *slog.Logger) []T {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 1
	}

	var items []T

	for page := 0; ; page++ {
		limit := cfg.PageSize
		offset := page * limit

		if cfg.MaxOffset > 0 && offset > cfg.MaxOffset {
			// Shrink the page so the offset stays under the cap.
			limit = cfg.MaxOffset / page
			if limit < 1 {
				logger.Warn("pagination cap exhausted",
					"source", cfg.Source,
					"page", page,
					"accumulated", len(items),
				)
				break
			}
			offset = page * limit
		}

		batch, err := fetch(ctx, offset, limit)
		if err != nil {
			metrics.FetchFailures.WithLabelValues(cfg.Source).Inc()
			logger.Warn("page fetch failed, returning partial dataset",
				"source", cfg.Source,
				"page", page,
				"accumulated", len(items),
				"err", err,
			)
			break
		}

		metrics.PagesFetched.WithLabelValues(cfg.Source).Inc()
		items = append(items, batch...)

		if len(batch) == 0 || len(batch) < limit {
			break
		}

		if cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return items
			case <-time.After(cfg.PageDelay):
			}
		}
	}

	return items
}
