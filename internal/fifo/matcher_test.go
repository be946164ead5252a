package fifo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/model"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func trade(title, outcome string, side model.Side, price, size string, at time.Time) model.Trade {
	return model.Trade{
		Title:     title,
		Outcome:   outcome,
		Side:      side,
		Price:     decimal.RequireFromString(price),
		Size:      decimal.RequireFromString(size),
		Timestamp: at,
	}
}

func requireProfit(t *testing.T, tr model.Trade, want string) {
	t.Helper()
	if tr.Profit == nil {
		t.Fatalf("trade %s: profit not attributed, want %s", tr.ID, want)
	}
	if !tr.Profit.Equal(decimal.RequireFromString(want)) {
		t.Errorf("profit = %s, want %s", tr.Profit, want)
	}
}

func TestMarketKey(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		outcome string
		want    string
	}{
		{"explicit outcome", "Rain tomorrow?", "No", "Rain tomorrow?_No"},
		{"missing outcome defaults to YES", "Rain tomorrow?", "", "Rain tomorrow?_YES"},
		{"case sensitive", "X", "yes", "X_yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarketKey(tt.title, tt.outcome); got != tt.want {
				t.Errorf("MarketKey(%q, %q) = %q, want %q", tt.title, tt.outcome, got, tt.want)
			}
		})
	}
}

func TestSynthesizeIDDeterministic(t *testing.T) {
	tr := trade("X", "YES", model.SideBuy, "0.40", "10", t0)

	first := SynthesizeID(tr, 3)
	second := SynthesizeID(tr, 3)
	if first != second {
		t.Errorf("id not deterministic: %s != %s", first, second)
	}

	// Position in the original list is part of the identity.
	other := SynthesizeID(tr, 4)
	if first == other {
		t.Error("ids at different indexes should differ")
	}
}

func TestAttributeRealizedPnl(t *testing.T) {
	t.Run("single buy then sell", func(t *testing.T) {
		trades := AttributeRealizedPnl([]model.Trade{
			trade("X", "YES", model.SideBuy, "0.40", "10", t0),
			trade("X", "YES", model.SideSell, "0.60", "10", t0.Add(time.Hour)),
		})

		if trades[0].Profit != nil {
			t.Error("buy should not carry a profit")
		}
		requireProfit(t, trades[1], "2.00")
	})

	t.Run("weighted average over two buys", func(t *testing.T) {
		trades := AttributeRealizedPnl([]model.Trade{
			trade("X", "YES", model.SideBuy, "0.30", "5", t0),
			trade("X", "YES", model.SideBuy, "0.50", "5", t0.Add(time.Minute)),
			trade("X", "YES", model.SideSell, "0.70", "10", t0.Add(time.Hour)),
		})

		// avg cost = (1.5 + 2.5) / 10 = 0.40
		requireProfit(t, trades[2], "3.00")
	})

	t.Run("sell without buy inventory stays unattributed", func(t *testing.T) {
		trades := AttributeRealizedPnl([]model.Trade{
			trade("X", "YES", model.SideSell, "0.70", "10", t0),
			trade("Y", "YES", model.SideBuy, "0.20", "5", t0),
			trade("Y", "YES", model.SideSell, "0.25", "5", t0.Add(time.Hour)),
		})

		if trades[0].Profit != nil {
			t.Errorf("oversold sell should stay unattributed, got %s", trades[0].Profit)
		}
		// The other group is unaffected.
		requireProfit(t, trades[2], "0.25")
	})

	t.Run("partial fill then oversell", func(t *testing.T) {
		trades := AttributeRealizedPnl([]model.Trade{
			trade("X", "YES", model.SideBuy, "0.40", "10", t0),
			trade("X", "YES", model.SideSell, "0.60", "6", t0.Add(time.Hour)),
			trade("X", "YES", model.SideSell, "0.60", "6", t0.Add(2*time.Hour)),
			trade("X", "YES", model.SideSell, "0.60", "6", t0.Add(3*time.Hour)),
		})

		// Sells consume 6 + 4 of the 10 bought; the third finds nothing.
		requireProfit(t, trades[1], "1.20")
		requireProfit(t, trades[2], "0.80")
		if trades[3].Profit != nil {
			t.Errorf("third sell should be unattributed, got %s", trades[3].Profit)
		}
	})

	t.Run("groups keyed by outcome", func(t *testing.T) {
		trades := AttributeRealizedPnl([]model.Trade{
			trade("X", "YES", model.SideBuy, "0.40", "10", t0),
			trade("X", "NO", model.SideSell, "0.60", "10", t0.Add(time.Hour)),
		})

		// The NO sell must not consume YES inventory.
		if trades[1].Profit != nil {
			t.Errorf("cross-outcome match: got profit %s", trades[1].Profit)
		}
	})

	t.Run("no sells leaves group untouched", func(t *testing.T) {
		trades := AttributeRealizedPnl([]model.Trade{
			trade("X", "YES", model.SideBuy, "0.40", "10", t0),
			trade("X", "YES", model.SideBuy, "0.45", "10", t0.Add(time.Minute)),
		})
		for _, tr := range trades {
			if tr.Profit != nil {
				t.Errorf("buy-only group should carry no profits, got %s", tr.Profit)
			}
		}
	})

	t.Run("ids filled in and stable across calls", func(t *testing.T) {
		input := func() []model.Trade {
			return []model.Trade{
				trade("X", "YES", model.SideBuy, "0.40", "10", t0),
				trade("X", "YES", model.SideSell, "0.60", "10", t0.Add(time.Hour)),
			}
		}

		first := AttributeRealizedPnl(input())
		second := AttributeRealizedPnl(input())

		for i := range first {
			if first[i].ID == "" {
				t.Fatalf("trade %d: id not synthesized", i)
			}
			if first[i].ID != second[i].ID {
				t.Errorf("trade %d: id unstable across calls: %s != %s", i, first[i].ID, second[i].ID)
			}
		}
	})

	t.Run("native ids are preserved", func(t *testing.T) {
		tr := trade("X", "YES", model.SideBuy, "0.40", "10", t0)
		tr.ID = "native-1"
		trades := AttributeRealizedPnl([]model.Trade{tr})
		if trades[0].ID != "native-1" {
			t.Errorf("native id overwritten: %s", trades[0].ID)
		}
	})
}

// Total attributed profit must equal sum over matches of
// (sellPrice - avgCost) × matchedSize with no residual, and matched
// size can never exceed what was bought.
func TestFIFOConservation(t *testing.T) {
	trades := AttributeRealizedPnl([]model.Trade{
		trade("X", "YES", model.SideBuy, "0.30", "4", t0),
		trade("X", "YES", model.SideBuy, "0.50", "8", t0.Add(time.Minute)),
		trade("X", "YES", model.SideSell, "0.55", "5", t0.Add(time.Hour)),
		trade("X", "YES", model.SideSell, "0.65", "5", t0.Add(2*time.Hour)),
		trade("X", "YES", model.SideSell, "0.75", "5", t0.Add(3*time.Hour)),
	})

	// avg = (1.2 + 4.0) / 12 = 0.433...; matched sizes 5 + 5 + 2 = 12.
	totalBought := decimal.NewFromInt(12)
	avg := decimal.RequireFromString("5.2").Div(totalBought)

	wantTotal := decimal.RequireFromString("0.55").Sub(avg).Mul(decimal.NewFromInt(5)).Round(2).
		Add(decimal.RequireFromString("0.65").Sub(avg).Mul(decimal.NewFromInt(5)).Round(2)).
		Add(decimal.RequireFromString("0.75").Sub(avg).Mul(decimal.NewFromInt(2)).Round(2))

	gotTotal := decimal.Zero
	for _, tr := range trades {
		if tr.Profit != nil {
			gotTotal = gotTotal.Add(*tr.Profit)
		}
	}
	if !gotTotal.Equal(wantTotal) {
		t.Errorf("total attributed profit = %s, want %s", gotTotal, wantTotal)
	}
}
