package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polyfolio/pnl-data/internal/model"
)

// Store persists reconciliation snapshots so PnL history survives
// restarts and cache expiry.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a snapshot store on an existing connection pool.
func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// snapshotRow is the flattened form written to the snapshots table.
type snapshotRow struct {
	Address         string
	GeneratedAt     time.Time
	RealizedPnl     float64
	UnrealizedPnl   float64
	TotalPnl        float64
	PortfolioValue  float64
	OpenPositions   int
	ClosedPositions int
}

// timelineRow is one point in the timeline_points table. The
// (address, ts) pair is the primary key; reconciliation appends new
// seconds and never rewrites old ones, so conflicts are skipped.
type timelineRow struct {
	Address string
	Ts      time.Time
	Value   float64
}

// transform flattens a reconciliation result into its table rows.
func transform(result *model.ReconciliationResult) (snapshotRow, []timelineRow) {
	snap := snapshotRow{
		Address:         result.Address,
		GeneratedAt:     result.GeneratedAt,
		RealizedPnl:     result.RealizedPnl.InexactFloat64(),
		UnrealizedPnl:   result.UnrealizedPnl.InexactFloat64(),
		TotalPnl:        result.TotalPnl.InexactFloat64(),
		PortfolioValue:  result.PortfolioValue.InexactFloat64(),
		OpenPositions:   result.OpenPositionsCount,
		ClosedPositions: result.ClosedPositionsCount,
	}

	points := make([]timelineRow, 0, len(result.Timeline))
	for _, p := range result.Timeline {
		points = append(points, timelineRow{
			Address: result.Address,
			Ts:      p.Timestamp,
			Value:   p.Value.InexactFloat64(),
		})
	}
	return snap, points
}

// SaveSnapshot writes one snapshot row plus the result's timeline
// points using pgx.Batch with ON CONFLICT DO NOTHING on the points.
func (s *Store) SaveSnapshot(ctx context.Context, result *model.ReconciliationResult) error {
	snap, points := transform(result)
	start := time.Now()

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO snapshots (address, generated_at, realized_pnl, unrealized_pnl, total_pnl, portfolio_value, open_positions, closed_positions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, snap.Address, snap.GeneratedAt, snap.RealizedPnl, snap.UnrealizedPnl, snap.TotalPnl, snap.PortfolioValue, snap.OpenPositions, snap.ClosedPositions)

	for _, p := range points {
		batch.Queue(`
			INSERT INTO timeline_points (address, ts, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (address, ts) DO NOTHING
		`, p.Address, p.Ts, p.Value)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("snapshot batch exec: %w", err)
		}
	}

	s.logger.Debug("snapshot saved",
		"address", snap.Address,
		"timeline_points", len(points),
		"duration", time.Since(start),
	)
	return nil
}

// LatestSnapshot returns the most recent stored totals for address, or
// pgx.ErrNoRows if none exists.
func (s *Store) LatestSnapshot(ctx context.Context, address string) (*model.ReconciliationResult, error) {
	var snap snapshotRow
	err := s.db.QueryRow(ctx, `
		SELECT address, generated_at, realized_pnl, unrealized_pnl, total_pnl, portfolio_value, open_positions, closed_positions
		FROM snapshots
		WHERE address = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`, address).Scan(
		&snap.Address, &snap.GeneratedAt,
		&snap.RealizedPnl, &snap.UnrealizedPnl, &snap.TotalPnl, &snap.PortfolioValue,
		&snap.OpenPositions, &snap.ClosedPositions,
	)
	if err != nil {
		return nil, err
	}
	return snap.toModel(), nil
}
