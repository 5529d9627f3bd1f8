// Package sqlite provides durable storage for report state, structure
// memory and documents, backed by a single SQLite database.
//
// The database uses WAL mode for concurrent readers and a busy timeout
// for writer contention. Schema changes are applied through embedded
// migrations at startup. The per-report generation lock lives in the
// reports table itself (owner + expiry columns), so lock exclusivity
// holds across processes sharing the database file.
package sqlite
