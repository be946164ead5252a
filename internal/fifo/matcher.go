package fifo

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/metrics"
	"github.com/polyfolio/pnl-data/internal/model"
)

// idNamespace is the fixed UUIDv5 namespace for synthesized trade ids.
// Changing it breaks id stability across releases, so don't.
var idNamespace = uuid.MustParse("b4f9a1de-77c2-4d0b-9c5e-2f8b31f6a9d4")

// DefaultOutcome is assumed when a trade carries no outcome.
const DefaultOutcome = "YES"

// MarketKey derives the grouping key for cost-basis matching. The key
// is market title plus outcome, case-sensitive; a raw market id is
// deliberately not used because the activity source does not expose
// one consistently.
func MarketKey(title, outcome string) string {
	if outcome == "" {
		outcome = DefaultOutcome
	}
	return title + "_" + outcome
}

// SynthesizeID builds a deterministic id for a trade the source
// delivered without one. Downstream consumers key on trade ids across
// repeated calls with the same input, so the id must be a pure
// function of the trade's content and original position.
func SynthesizeID(t model.Trade, index int) string {
	key := fmt.Sprintf("%d|%s|%s|%s|%s|%d",
		t.Timestamp.Unix(),
		MarketKey(t.Title, t.Outcome),
		t.Outcome,
		t.Price.String(),
		t.Size.String(),
		index,
	)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// AttributeRealizedPnl assigns realized profit to SELL trades using
// first-in-first-out matching against a running weighted-average buy
// cost, per market+outcome group. The input slice is returned with
// SELLs annotated in place; trades in groups without sells, and sells
// with no buy inventory, keep a nil Profit.
//
// The function never fails: malformed rows were already zeroed at the
// source adapter and degrade to zero-profit attribution here.
func AttributeRealizedPnl(trades []model.Trade) []model.Trade {
	for i := range trades {
		if trades[i].MarketKey == "" {
			trades[i].MarketKey = MarketKey(trades[i].Title, trades[i].Outcome)
		}
		if trades[i].ID == "" {
			trades[i].ID = SynthesizeID(trades[i], i)
		}
	}

	groups := make(map[string][]int)
	for i, t := range trades {
		groups[t.MarketKey] = append(groups[t.MarketKey], i)
	}

	for _, idxs := range groups {
		attributeGroup(trades, idxs)
	}

	return trades
}

// attributeGroup runs the matching for one market+outcome group.
func attributeGroup(trades []model.Trade, idxs []int) {
	var buys, sells []int
	for _, i := range idxs {
		switch trades[i].Side {
		case model.SideBuy:
			buys = append(buys, i)
		case model.SideSell:
			sells = append(sells, i)
		}
	}

	// Nothing to attribute.
	if len(sells) == 0 {
		return
	}

	sort.SliceStable(buys, func(a, b int) bool {
		return trades[buys[a]].Timestamp.Before(trades[buys[b]].Timestamp)
	})
	sort.SliceStable(sells, func(a, b int) bool {
		return trades[sells[a]].Timestamp.Before(trades[sells[b]].Timestamp)
	})

	// Fold buys into cumulative cost and size; the weighted-average
	// cost basis is cumulativeCost / cumulativeSize.
	cost := decimal.Zero
	remaining := decimal.Zero
	for _, i := range buys {
		cost = cost.Add(trades[i].Price.Mul(trades[i].Size))
		remaining = remaining.Add(trades[i].Size)
	}

	for _, i := range sells {
		if remaining.LessThanOrEqual(decimal.Zero) {
			// Oversold relative to observable history; leave the sell
			// unattributed rather than guess a cost basis.
			metrics.UnmatchedSells.Inc()
			slog.Debug("sell with no matching buy inventory",
				"market_key", trades[i].MarketKey,
				"trade_id", trades[i].ID,
			)
			continue
		}

		avg := cost.Div(remaining)
		matched := decimal.Min(trades[i].Size, remaining)

		profit := trades[i].Price.Sub(avg).Mul(matched).Round(2)
		trades[i].Profit = &profit

		cost = cost.Sub(avg.Mul(matched))
		remaining = remaining.Sub(matched)
	}
}
