// Package database provides the PostgreSQL connection pool for the
// optional reconciliation snapshot store. Persistence is disabled when
// no database host is configured; the engine serves from cache alone.
package database
