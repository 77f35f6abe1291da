// Package store persists campaign documents and their analyses in SQL.
//
// Two dialects are supported through database/sql: SQLite (modernc.org/sqlite,
// the default and the test backend) and PostgreSQL (pgx stdlib). Queries are
// written with ? placeholders and rebound for PostgreSQL.
//
// Every analysis is stored three ways: a summary row in campaign_analysis
// holding the JSON payloads, one row per creative feature in
// creative_features_lookup, and one row per business outcome in
// business_outcomes_lookup. Rows are append-only; re-analysis adds a new
// summary row and the newest one wins on read.
package store
