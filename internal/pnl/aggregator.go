package pnl

import (
	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/model"
)

// Totals holds the headline profit-and-loss figures for one user.
type Totals struct {
	RealizedPnl          decimal.Decimal
	UnrealizedPnl        decimal.Decimal
	TotalPnl             decimal.Decimal
	PortfolioValue       decimal.Decimal
	OpenPositionsCount   int
	ClosedPositionsCount int
}

// Summarize combines the settled subgraph positions and the live open
// positions into the headline totals. TotalPnl is the single
// authoritative figure the timeline must reconcile to.
//
// Dust filtering applies on both sides: settled positions with
// |realizedPnl| at or below the epsilon are ledger rounding noise and
// are neither summed nor counted, and likewise open positions at or
// below the size epsilon.
func Summarize(settled []model.SubgraphPosition, open []model.OpenPosition) Totals {
	var t Totals

	realized := decimal.Zero
	for _, p := range settled {
		if p.RealizedPnl.Abs().LessThanOrEqual(model.DustEpsilon) {
			continue
		}
		realized = realized.Add(p.RealizedPnl)
		t.ClosedPositionsCount++
	}

	unrealized := decimal.Zero
	portfolio := decimal.Zero
	for _, p := range open {
		if !p.Open() {
			continue
		}
		unrealized = unrealized.Add(p.CashPnl)
		portfolio = portfolio.Add(p.CurrentValue)
		t.OpenPositionsCount++
	}

	t.RealizedPnl = realized.Round(2)
	t.UnrealizedPnl = unrealized.Round(2)
	t.TotalPnl = t.RealizedPnl.Add(t.UnrealizedPnl)
	t.PortfolioValue = portfolio.Round(2)

	return t
}
