// Package store persists reconciliation snapshots to PostgreSQL.
//
// Two tables back it:
//   - snapshots: one summary row per reconciliation run
//   - timeline_points: the per-second PnL curve, keyed by (address, ts)
//
// The store is optional; when no database is configured the engine
// runs cache-only.
package store
