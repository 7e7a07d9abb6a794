// Package database provides PostgreSQL connectivity and repositories.
//
// Uses pgx for connection pooling. Repositories implement the domain
// interfaces: AnswerSource, SignalStore, UserDirectory. The prescoring
// tables are materialized from the corpus tables at migration time so the
// per-query read path is a small number of batched lookups.
package database
