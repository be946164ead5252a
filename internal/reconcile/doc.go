// Package reconcile orchestrates one full reconciliation request:
// concurrent fetches from all four sources, per-trade profit
// attribution, headline totals, and the cumulative-PnL timeline.
//
// Each request owns its accumulator state; nothing is shared across
// concurrent reconciliations.
package reconcile
