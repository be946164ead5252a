package pnl

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/model"
)

const (
	// anchorWindow is the supersession window: an activity event this
	// close to a settled-position anchor describes the same real-world
	// settlement and is dropped in the anchor's favor.
	anchorWindow = time.Second

	// staleAfter decides whether the authoritative total gets its own
	// point at "now" or overwrites the most recent one. Appending next
	// to a fresh point would draw a misleading double point.
	staleAfter = time.Hour
)

// Point priorities for the merge: anchors are settled, audited data
// and always win ties against interpolated events.
const (
	priorityAnchor = 1
	priorityEvent  = 2
)

type timelinePoint struct {
	ts       time.Time
	value    decimal.Decimal
	priority int
}

// BuildTimeline merges closed-position anchors with interpolated
// activity events into one deduplicated, chronologically ordered
// cumulative-PnL series, pinned to the authoritative total.
func BuildTimeline(events []model.ActivityEvent, closed []model.ClosedPosition, total decimal.Decimal) []model.PnLPoint {
	return buildTimelineAt(events, closed, total, time.Now().UTC())
}

func buildTimelineAt(events []model.ActivityEvent, closed []model.ClosedPosition, total decimal.Decimal, now time.Time) []model.PnLPoint {
	total = total.Round(2)

	anchors := anchorPoints(closed)
	combined := append(anchors, eventPoints(events, anchors)...)

	// Sort by second-truncated timestamp with anchors first inside a
	// second, so the per-second dedup below always keeps the
	// highest-priority point.
	sort.SliceStable(combined, func(a, b int) bool {
		sa, sb := combined[a].ts.Unix(), combined[b].ts.Unix()
		if sa != sb {
			return sa < sb
		}
		return combined[a].priority < combined[b].priority
	})

	seen := make(map[int64]bool, len(combined))
	points := make([]model.PnLPoint, 0, len(combined))
	for _, p := range combined {
		sec := p.ts.Unix()
		if seen[sec] {
			continue
		}
		seen[sec] = true
		points = append(points, model.PnLPoint{Timestamp: p.ts, Value: p.value.Round(2)})
	}

	// A chart must never be empty: degrade to a flat two-point series
	// ending at the authoritative total.
	if len(points) == 0 {
		return []model.PnLPoint{
			{Timestamp: now.Add(-24 * time.Hour), Value: decimal.Zero},
			{Timestamp: now, Value: total},
		}
	}

	// Reconcile the final point to the authoritative total.
	last := &points[len(points)-1]
	if now.Sub(last.Timestamp) > staleAfter {
		points = append(points, model.PnLPoint{Timestamp: now, Value: total})
	} else {
		last.Value = total
	}

	// The reconciliation step can break ordering when the appended
	// "now" lands before a skewed source timestamp.
	sort.SliceStable(points, func(a, b int) bool {
		return points[a].Timestamp.Before(points[b].Timestamp)
	})

	return points
}

// anchorPoints walks settled positions in settlement order and emits
// one cumulative point per settlement.
func anchorPoints(closed []model.ClosedPosition) []timelinePoint {
	sorted := make([]model.ClosedPosition, len(closed))
	copy(sorted, closed)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].EndDate.Before(sorted[b].EndDate)
	})

	points := make([]timelinePoint, 0, len(sorted))
	running := decimal.Zero
	for _, cp := range sorted {
		if cp.EndDate.IsZero() {
			continue
		}
		running = running.Add(cp.RealizedPnl)
		points = append(points, timelinePoint{
			ts:       cp.EndDate,
			value:    running,
			priority: priorityAnchor,
		})
	}
	return points
}

// eventPoints derives interpolated points from REDEEM and TRADE
// activity. Events close to an anchor are dropped (the anchor
// supersedes them); the rest take the value of the last anchor passed
// chronologically, plus the payout amount for REDEEMs. TRADE events
// carry no incremental value, they only mark activity on the chart.
func eventPoints(events []model.ActivityEvent, anchors []timelinePoint) []timelinePoint {
	var points []timelinePoint

	for _, ev := range events {
		if ev.Type != model.ActivityRedeem && ev.Type != model.ActivityTrade {
			continue
		}
		if ev.Timestamp.IsZero() {
			continue
		}
		if nearAnchor(ev.Timestamp, anchors) {
			continue
		}

		value := lastAnchorValue(ev.Timestamp, anchors)
		if ev.Type == model.ActivityRedeem {
			value = value.Add(ev.Amount)
		}

		points = append(points, timelinePoint{
			ts:       ev.Timestamp,
			value:    value,
			priority: priorityEvent,
		})
	}

	return points
}

// nearAnchor reports whether an anchor exists within the supersession
// window of ts. Anchors are sorted ascending.
func nearAnchor(ts time.Time, anchors []timelinePoint) bool {
	for _, a := range anchors {
		d := a.ts.Sub(ts)
		if d < 0 {
			d = -d
		}
		if d <= anchorWindow {
			return true
		}
		if a.ts.After(ts.Add(anchorWindow)) {
			break
		}
	}
	return false
}

// lastAnchorValue returns the cumulative value of the latest anchor at
// or before ts, or zero when the event predates all anchors.
func lastAnchorValue(ts time.Time, anchors []timelinePoint) decimal.Decimal {
	value := decimal.Zero
	for _, a := range anchors {
		if a.ts.After(ts) {
			break
		}
		value = a.value
	}
	return value
}
