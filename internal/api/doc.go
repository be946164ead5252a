// Package api provides clients for the external trading-history
// sources and the pagination machinery shared between them.
//
// Sources:
//   - Data API (REST): open positions, closed-position history, raw
//     activity events (https://data-api.polymarket.com)
//   - PnL subgraph (GraphQL): settled positions with fixed-point
//     realized PnL; no timestamps, skip capped at 10,000
//
// Every paginated fetch is fail-soft: retry with linear backoff per
// page, and on exhaustion return the accumulated partial dataset
// rather than an error. Raw payload quirks (string-or-number decimals,
// second-or-millisecond timestamps, aliased field names) are absorbed
// by the adapter layer in types.go/convert.go; the rest of the engine
// only sees internal/model types.
package api
