package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestOpenPositionOpen(t *testing.T) {
	tests := []struct {
		name string
		size string
		want bool
	}{
		{"zero size", "0", false},
		{"dust below epsilon", "0.005", false},
		{"exactly epsilon", "0.01", false},
		{"just above epsilon", "0.011", true},
		{"normal position", "150.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := OpenPosition{Size: decimal.RequireFromString(tt.size)}
			if got := p.Open(); got != tt.want {
				t.Errorf("Open() = %v, want %v for size %s", got, tt.want, tt.size)
			}
		})
	}
}

func TestTradeProfitOmittedWhenNil(t *testing.T) {
	tr := Trade{
		ID:   "t1",
		Side: SideSell,
		Size: decimal.NewFromInt(10),
	}

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "profit") {
		t.Errorf("profit field should be omitted when unattributed, got %s", data)
	}

	profit := decimal.NewFromFloat(2.00)
	tr.Profit = &profit
	data, err = json.Marshal(tr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"profit":"2"`) {
		t.Errorf("profit field should be present when attributed, got %s", data)
	}
}
