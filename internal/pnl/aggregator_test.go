package pnl

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummarize(t *testing.T) {
	t.Run("all zero inputs", func(t *testing.T) {
		got := Summarize(nil, nil)

		if !got.RealizedPnl.IsZero() || !got.UnrealizedPnl.IsZero() || !got.TotalPnl.IsZero() {
			t.Errorf("zero inputs should produce zero totals, got %+v", got)
		}
		if got.OpenPositionsCount != 0 || got.ClosedPositionsCount != 0 {
			t.Errorf("zero inputs should produce zero counts, got %+v", got)
		}
	})

	t.Run("realized sums settled positions above dust", func(t *testing.T) {
		settled := []model.SubgraphPosition{
			{TokenID: "a", RealizedPnl: dec("120.50")},
			{TokenID: "b", RealizedPnl: dec("-35.25")},
			{TokenID: "c", RealizedPnl: dec("0.005")},  // dust, excluded
			{TokenID: "d", RealizedPnl: dec("-0.009")}, // dust, excluded
		}

		got := Summarize(settled, nil)

		if !got.RealizedPnl.Equal(dec("85.25")) {
			t.Errorf("RealizedPnl = %s, want 85.25", got.RealizedPnl)
		}
		if got.ClosedPositionsCount != 2 {
			t.Errorf("ClosedPositionsCount = %d, want 2", got.ClosedPositionsCount)
		}
	})

	t.Run("unrealized sums live positions above dust", func(t *testing.T) {
		open := []model.OpenPosition{
			{Size: dec("100"), CurrentValue: dec("55.00"), CashPnl: dec("5.00")},
			{Size: dec("20"), CurrentValue: dec("4.00"), CashPnl: dec("-1.50")},
			{Size: dec("0.004"), CurrentValue: dec("99.99"), CashPnl: dec("99.99")}, // dust
		}

		got := Summarize(nil, open)

		if !got.UnrealizedPnl.Equal(dec("3.50")) {
			t.Errorf("UnrealizedPnl = %s, want 3.50", got.UnrealizedPnl)
		}
		if !got.PortfolioValue.Equal(dec("59.00")) {
			t.Errorf("PortfolioValue = %s, want 59.00", got.PortfolioValue)
		}
		if got.OpenPositionsCount != 2 {
			t.Errorf("OpenPositionsCount = %d, want 2", got.OpenPositionsCount)
		}
	})

	t.Run("total equals realized plus unrealized", func(t *testing.T) {
		settled := []model.SubgraphPosition{{RealizedPnl: dec("10.10")}}
		open := []model.OpenPosition{{Size: dec("5"), CashPnl: dec("-2.35")}}

		got := Summarize(settled, open)

		if !got.TotalPnl.Equal(got.RealizedPnl.Add(got.UnrealizedPnl)) {
			t.Errorf("TotalPnl = %s, want realized %s + unrealized %s",
				got.TotalPnl, got.RealizedPnl, got.UnrealizedPnl)
		}
		if !got.TotalPnl.Equal(dec("7.75")) {
			t.Errorf("TotalPnl = %s, want 7.75", got.TotalPnl)
		}
	})
}
