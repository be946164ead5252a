// Package server exposes the reconciliation engine over HTTP.
//
// Routes:
//   - GET /api/v1/pnl/{address}            full reconciliation result
//   - GET /api/v1/pnl/{address}/timeline   timeline points only
//   - GET /api/v1/ws                       websocket update feed
//   - GET /health, GET /metrics
//
// Results are served from the TTL cache when fresh; a miss triggers a
// full reconciliation, which is then cached, optionally persisted, and
// broadcast to websocket clients.
package server
