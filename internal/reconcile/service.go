package reconcile

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polyfolio/pnl-data/internal/api"
	"github.com/polyfolio/pnl-data/internal/fifo"
	"github.com/polyfolio/pnl-data/internal/metrics"
	"github.com/polyfolio/pnl-data/internal/model"
	"github.com/polyfolio/pnl-data/internal/pnl"
)

// DataSource is the REST side of the trading history: open positions,
// closed-position history, raw activity. All methods are fail-soft.
type DataSource interface {
	GetOpenPositions(ctx context.Context, user string) []model.OpenPosition
	GetClosedPositions(ctx context.Context, user string) []model.ClosedPosition
	GetActivity(ctx context.Context, user string) []model.ActivityEvent
}

// SettledSource is the indexed subgraph of settled positions.
type SettledSource interface {
	GetUserPositions(ctx context.Context, user string) []model.SubgraphPosition
}

// Service runs full reconciliations: fetch all four datasets, attribute
// per-trade profit, aggregate the totals, and synthesize the timeline.
type Service struct {
	data    DataSource
	settled SettledSource
	logger  *slog.Logger
}

// NewService creates a reconciliation service.
func NewService(data DataSource, settled SettledSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		data:    data,
		settled: settled,
		logger:  logger,
	}
}

var _ DataSource = (*api.Client)(nil)
var _ SettledSource = (*api.SubgraphClient)(nil)

// Reconcile produces the full reconciliation result for one address.
//
// The four source fetches run concurrently; each degrades to an empty
// dataset on failure inside the fetcher boundary, so the worst case is
// a result with all-zero figures and the minimal two-point timeline.
// Reconcile itself never fails.
func (s *Service) Reconcile(ctx context.Context, address string) *model.ReconciliationResult {
	start := time.Now()

	var (
		settled []model.SubgraphPosition
		open    []model.OpenPosition
		closed  []model.ClosedPosition
		events  []model.ActivityEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settled = s.settled.GetUserPositions(gctx, address)
		return nil
	})
	g.Go(func() error {
		open = s.data.GetOpenPositions(gctx, address)
		return nil
	})
	g.Go(func() error {
		closed = s.data.GetClosedPositions(gctx, address)
		return nil
	})
	g.Go(func() error {
		events = s.data.GetActivity(gctx, address)
		return nil
	})
	g.Wait()

	trades := fifo.AttributeRealizedPnl(api.TradesFromActivity(events))
	totals := pnl.Summarize(settled, open)
	timeline := pnl.BuildTimeline(events, closed, totals.TotalPnl)

	elapsed := time.Since(start)
	metrics.ReconciliationsTotal.Inc()
	metrics.ReconciliationDuration.Observe(elapsed.Seconds())

	s.logger.Info("reconciliation complete",
		"address", address,
		"settled_positions", len(settled),
		"open_positions", len(open),
		"closed_positions", len(closed),
		"activity_events", len(events),
		"trades", len(trades),
		"timeline_points", len(timeline),
		"total_pnl", totals.TotalPnl.String(),
		"duration", elapsed,
	)

	return &model.ReconciliationResult{
		Address:              address,
		RealizedPnl:          totals.RealizedPnl,
		UnrealizedPnl:        totals.UnrealizedPnl,
		TotalPnl:             totals.TotalPnl,
		PortfolioValue:       totals.PortfolioValue,
		OpenPositionsCount:   totals.OpenPositionsCount,
		ClosedPositionsCount: totals.ClosedPositionsCount,
		Timeline:             timeline,
		Trades:               trades,
		GeneratedAt:          time.Now().UTC(),
	}
}
