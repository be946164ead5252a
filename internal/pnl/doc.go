// Package pnl computes the headline profit-and-loss totals and the
// cumulative-PnL timeline.
//
// The aggregator sums settled (subgraph) and live (open-position)
// figures with dust filtering; its total is the one authoritative
// number. The timeline synthesizer merges settled-position anchors
// with interpolated activity events, deduplicates to one point per
// second, and pins the final point to that total exactly.
package pnl
