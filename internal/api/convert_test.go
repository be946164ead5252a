package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/model"
)

func TestFlexDecimal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"number", `{"v": 1.5}`, "1.5"},
		{"string", `{"v": "2.75"}`, "2.75"},
		{"negative string", `{"v": "-0.5"}`, "-0.5"},
		{"null", `{"v": null}`, "0"},
		{"missing", `{}`, "0"},
		{"malformed", `{"v": "abc"}`, "0"},
		{"empty string", `{"v": ""}`, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				V flexDecimal `json:"v"`
			}
			if err := json.Unmarshal([]byte(tt.json), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.V.String() != tt.want {
				t.Errorf("got %s, want %s", out.V, tt.want)
			}
		})
	}
}

func TestFlexTime(t *testing.T) {
	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC) // epoch 1700000000

	tests := []struct {
		name string
		json string
		want time.Time
	}{
		{"seconds", `{"t": 1700000000}`, want},
		{"milliseconds", `{"t": 1700000000000}`, want},
		{"string seconds", `{"t": "1700000000"}`, want},
		{"string milliseconds", `{"t": "1700000000000"}`, want},
		{"zero", `{"t": 0}`, time.Time{}},
		{"null", `{"t": null}`, time.Time{}},
		{"malformed", `{"t": "yesterday"}`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				T flexTime `json:"t"`
			}
			if err := json.Unmarshal([]byte(tt.json), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !out.T.Time.Equal(tt.want) {
				t.Errorf("got %v, want %v", out.T.Time, tt.want)
			}
		})
	}
}

func TestNormalizeEpoch(t *testing.T) {
	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	if got := normalizeEpoch(1700000000); !got.Equal(want) {
		t.Errorf("seconds: got %v, want %v", got, want)
	}
	if got := normalizeEpoch(1700000000000); !got.Equal(want) {
		t.Errorf("milliseconds: got %v, want %v", got, want)
	}
	if got := normalizeEpoch(0); !got.IsZero() {
		t.Errorf("zero epoch: got %v, want zero time", got)
	}
}

func TestParseISOTime(t *testing.T) {
	want := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2025-03-01T12:30:00Z", want},
		{"fractional", "2025-03-01T12:30:00.000Z", want},
		{"no zone", "2025-03-01T12:30:00", want},
		{"empty", "", time.Time{}},
		{"garbage", "March 1st", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseISOTime(tt.input); !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScaledDecimal(t *testing.T) {
	if got := scaledDecimal("12500000"); got.String() != "12.5" {
		t.Errorf("got %s, want 12.5", got)
	}
	if got := scaledDecimal("-10000"); got.String() != "-0.01" {
		t.Errorf("got %s, want -0.01", got)
	}
	if got := scaledDecimal("not a number"); !got.IsZero() {
		t.Errorf("got %s, want 0", got)
	}
}

func TestActivityEventAliases(t *testing.T) {
	t.Run("trade with canonical fields", func(t *testing.T) {
		raw := rawActivityEvent{Type: "TRADE", Side: "buy"}
		raw.Size.Decimal = decimal.NewFromInt(10)
		raw.Price.Decimal = decimal.NewFromFloat(0.4)

		ev := raw.toModel()
		if ev.Type != model.ActivityTrade || ev.Side != "BUY" {
			t.Errorf("type/side = %s/%s", ev.Type, ev.Side)
		}
		if ev.Size.String() != "10" || ev.Price.String() != "0.4" {
			t.Errorf("size/price = %s/%s", ev.Size, ev.Price)
		}
	})

	t.Run("trade with aliased fields", func(t *testing.T) {
		raw := rawActivityEvent{Type: "TRADE", Side: "SELL"}
		raw.OutcomeTokenAmount.Decimal = decimal.NewFromInt(7)
		raw.OutcomeTokenPrice.Decimal = decimal.NewFromFloat(0.6)

		ev := raw.toModel()
		if ev.Size.String() != "7" || ev.Price.String() != "0.6" {
			t.Errorf("aliased size/price = %s/%s", ev.Size, ev.Price)
		}
	})

	t.Run("redeem amount aliases", func(t *testing.T) {
		raw := rawActivityEvent{Type: "REDEEM"}
		raw.Amount.Decimal = decimal.NewFromFloat(25.50)

		ev := raw.toModel()
		if ev.Type != model.ActivityRedeem || ev.Amount.String() != "25.5" {
			t.Errorf("type/amount = %s/%s", ev.Type, ev.Amount)
		}

		raw2 := rawActivityEvent{Type: "REDEEM"}
		raw2.UsdcSize.Decimal = decimal.NewFromFloat(30)
		if got := raw2.toModel().Amount; got.String() != "30" {
			t.Errorf("usdcSize amount = %s, want 30", got)
		}
	})
}

func TestTradesFromActivity(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []model.ActivityEvent{
		{Type: model.ActivityTrade, Side: "BUY", Title: "A", Size: decimal.NewFromInt(1), Timestamp: ts},
		{Type: model.ActivityRedeem, Amount: decimal.NewFromInt(5)},
		{Type: model.ActivityTrade, Side: "HOLD", Title: "B"}, // unusable side
		{Type: model.ActivityTrade, Side: "SELL", Title: "C", Size: decimal.NewFromInt(2), Timestamp: ts.Add(time.Hour)},
	}

	trades := TradesFromActivity(events)
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	if trades[0].Title != "A" || trades[0].Side != model.SideBuy {
		t.Errorf("first trade = %s/%s", trades[0].Title, trades[0].Side)
	}
	if trades[1].Title != "C" || trades[1].Side != model.SideSell {
		t.Errorf("second trade = %s/%s", trades[1].Title, trades[1].Side)
	}
}
