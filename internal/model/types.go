package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollateralScale is the fixed-point scale factor the upstream ledger
// uses to represent USDC amounts as integers (1e6 = six decimal places).
const CollateralScale = 1_000_000

// DustEpsilon is the size/pnl threshold below which a position is
// treated as rounding residue from the upstream ledger, not a real
// position.
var DustEpsilon = decimal.NewFromFloat(0.01)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ActivityType classifies a raw activity event. Types other than TRADE
// and REDEEM are ignored by the reconciliation engine.
type ActivityType string

const (
	ActivityTrade  ActivityType = "TRADE"
	ActivityRedeem ActivityType = "REDEEM"
)

// -----------------------------------------------------------------------------
// Source Types
// -----------------------------------------------------------------------------

// Trade is a single fill from the activity source. Immutable once
// fetched; lifetime is one reconciliation request.
type Trade struct {
	ID        string           `json:"id"`                // Native or synthesized (deterministic)
	MarketKey string           `json:"marketKey"`         // title + "_" + outcome
	Title     string           `json:"title"`             // Market title
	Outcome   string           `json:"outcome"`           // "Yes"/"No"; defaults to YES when absent
	Side      Side             `json:"side"`              // BUY or SELL
	Price     decimal.Decimal  `json:"price"`             // Per-share price in USDC
	Size      decimal.Decimal  `json:"size"`              // Shares
	Timestamp time.Time        `json:"timestamp"`         // Fill time
	Profit    *decimal.Decimal `json:"profit,omitempty"`  // Realized profit (SELLs only, nil = unattributed)
}

// ClosedPosition is a settled position from the closed-positions history
// source. Highest-trust data; settlement timing comes from here because
// the subgraph carries no timestamps.
type ClosedPosition struct {
	RealizedPnl decimal.Decimal `json:"realizedPnl"`
	EndDate     time.Time       `json:"endDate"`
	Title       string          `json:"title"`
}

// ActivityEvent is a raw event from the activity source. Amount is
// meaningful only for REDEEM events.
type ActivityEvent struct {
	Type      ActivityType    `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Amount    decimal.Decimal `json:"amount"`
	Side      string          `json:"side"`
	Size      decimal.Decimal `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Title     string          `json:"title"`
	Outcome   string          `json:"outcome"`
}

// OpenPosition is a live position from the open-positions source.
// CashPnl is the source-computed unrealized PnL.
type OpenPosition struct {
	Size         decimal.Decimal `json:"size"`
	InitialValue decimal.Decimal `json:"initialValue"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	CashPnl      decimal.Decimal `json:"cashPnl"`
}

// Open reports whether the position counts as live. Positions at or
// below the dust epsilon are ledger residue.
func (p OpenPosition) Open() bool {
	return p.Size.GreaterThan(DustEpsilon)
}

// SubgraphPosition is a settled position from the indexed subgraph.
// RealizedPnl is already scaled from the ledger's fixed-point integers
// to USDC by the adapter layer. This source carries no timestamps, so
// settlement timing must come from the closed-positions history instead.
type SubgraphPosition struct {
	TokenID     string          `json:"tokenId"`
	RealizedPnl decimal.Decimal `json:"realizedPnl"`
	AvgPrice    decimal.Decimal `json:"avgPrice"`
	TotalBought decimal.Decimal `json:"totalBought"`
}

// -----------------------------------------------------------------------------
// Output Types
// -----------------------------------------------------------------------------

// PnLPoint is one point on the cumulative realized-PnL timeline.
type PnLPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// ReconciliationResult is the consumer-facing output of one
// reconciliation request.
type ReconciliationResult struct {
	Address              string          `json:"address"`
	RealizedPnl          decimal.Decimal `json:"realizedPnl"`
	UnrealizedPnl        decimal.Decimal `json:"unrealizedPnl"`
	TotalPnl             decimal.Decimal `json:"totalPnl"`
	PortfolioValue       decimal.Decimal `json:"portfolioValue"`
	OpenPositionsCount   int             `json:"openPositionsCount"`
	ClosedPositionsCount int             `json:"closedPositionsCount"`
	Timeline             []PnLPoint      `json:"timeline"`
	Trades               []Trade         `json:"trades"`
	GeneratedAt          time.Time       `json:"generatedAt"`
}
