package api

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/model"
)

// msThreshold separates second from millisecond epoch timestamps. Both
// representations are observed from the activity source depending on
// the endpoint; anything above 1e12 cannot be a plausible second count.
const msThreshold = 1e12

// flexDecimal decodes a JSON number or numeric string into a decimal.
// Malformed or missing values decode to zero: a single bad record must
// never abort processing of the rest.
type flexDecimal struct {
	decimal.Decimal
}

func (d *flexDecimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		d.Decimal = decimal.Zero
		return nil
	}
	d.Decimal = v
	return nil
}

// flexTime decodes a numeric epoch timestamp (seconds or milliseconds,
// number or string) into a time.Time. Malformed values decode to the
// zero time.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = normalizeEpoch(f)
	return nil
}

// normalizeEpoch converts a numeric epoch value to a UTC instant,
// treating values above msThreshold as milliseconds.
func normalizeEpoch(v float64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	ms := int64(v)
	if v < msThreshold {
		ms = int64(v * 1000)
	}
	return time.UnixMilli(ms).UTC()
}

// parseISOTime parses an ISO 8601 timestamp, returning the zero time
// for empty or malformed input.
func parseISOTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// scaledDecimal parses a fixed-point integer string and divides it by
// the collateral scale. Malformed input parses to zero.
func scaledDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return v.Div(decimal.NewFromInt(model.CollateralScale))
}

// toOpenPosition maps a raw open position to the typed model.
func (r rawOpenPosition) toModel() model.OpenPosition {
	return model.OpenPosition{
		Size:         r.Size.Decimal,
		InitialValue: r.InitialValue.Decimal,
		CurrentValue: r.CurrentValue.Decimal,
		CashPnl:      r.CashPnl.Decimal,
	}
}

// toClosedPosition maps a raw closed position to the typed model.
func (r rawClosedPosition) toModel() model.ClosedPosition {
	return model.ClosedPosition{
		RealizedPnl: r.RealizedPnl.Decimal,
		EndDate:     parseISOTime(r.EndDate),
		Title:       r.Title,
	}
}

// toActivityEvent maps a raw activity event to the typed model,
// resolving the field-name aliases: payout amount is usdcSize or
// amount, size is size or outcomeTokenAmount, price is price or
// outcomeTokenPrice.
func (r rawActivityEvent) toModel() model.ActivityEvent {
	amount := r.UsdcSize.Decimal
	if amount.IsZero() {
		amount = r.Amount.Decimal
	}
	size := r.Size.Decimal
	if size.IsZero() {
		size = r.OutcomeTokenAmount.Decimal
	}
	price := r.Price.Decimal
	if price.IsZero() {
		price = r.OutcomeTokenPrice.Decimal
	}

	return model.ActivityEvent{
		Type:      model.ActivityType(strings.ToUpper(r.Type)),
		Timestamp: r.Timestamp.Time,
		Amount:    amount,
		Side:      strings.ToUpper(r.Side),
		Size:      size,
		Price:     price,
		Title:     r.Title,
		Outcome:   r.Outcome,
	}
}

// toModel maps a raw subgraph position to the typed model, scaling the
// ledger's fixed-point integers to USDC.
func (r rawSubgraphPosition) toModel() model.SubgraphPosition {
	return model.SubgraphPosition{
		TokenID:     r.TokenID,
		RealizedPnl: scaledDecimal(r.RealizedPnl),
		AvgPrice:    scaledDecimal(r.AvgPrice),
		TotalBought: scaledDecimal(r.TotalBought),
	}
}

// TradesFromActivity extracts the TRADE events from an activity stream
// as model.Trade values, in input order. Events with an unusable side
// are skipped.
func TradesFromActivity(events []model.ActivityEvent) []model.Trade {
	var trades []model.Trade
	for _, ev := range events {
		if ev.Type != model.ActivityTrade {
			continue
		}
		side := model.Side(ev.Side)
		if side != model.SideBuy && side != model.SideSell {
			continue
		}
		trades = append(trades, model.Trade{
			Title:     ev.Title,
			Outcome:   ev.Outcome,
			Side:      side,
			Price:     ev.Price,
			Size:      ev.Size,
			Timestamp: ev.Timestamp,
		})
	}
	return trades
}
