// Package model defines shared data types used across the PnL
// reconciliation engine.
//
// Conventions:
//   - Money: decimal.Decimal in USDC (ledger fixed-point integers are
//     converted at the source adapter, see internal/api)
//   - Timestamps: time.Time, normalized to UTC at the source adapter
//   - All entities are request-scoped value objects; nothing here is
//     persisted or shared across reconciliation requests
package model
