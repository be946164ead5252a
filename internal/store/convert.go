package store

import (
	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/model"
)

// toModel rebuilds result totals from a stored snapshot row. Timeline
// points are served separately; the row carries summary figures only.
func (r snapshotRow) toModel() *model.ReconciliationResult {
	return &model.ReconciliationResult{
		Address:              r.Address,
		GeneratedAt:          r.GeneratedAt,
		RealizedPnl:          decimal.NewFromFloat(r.RealizedPnl).Round(2),
		UnrealizedPnl:        decimal.NewFromFloat(r.UnrealizedPnl).Round(2),
		TotalPnl:             decimal.NewFromFloat(r.TotalPnl).Round(2),
		PortfolioValue:       decimal.NewFromFloat(r.PortfolioValue).Round(2),
		OpenPositionsCount:   r.OpenPositions,
		ClosedPositionsCount: r.ClosedPositions,
	}
}
