// Package sqlstore provides a SQL-backed response cache for deployments that
// already run PostgreSQL, or that want a single-file SQLite cache that
// survives restarts.
//
// Both dialects share one schema, managed by goose migrations embedded in the
// binary. Expiry times are stored as Unix milliseconds so the same queries
// work unchanged on either database.
package sqlstore
