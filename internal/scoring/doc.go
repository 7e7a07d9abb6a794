// Package scoring implements the expert scoring and aggregation pipeline.
//
// Given the retrieval collaborator's question matches for a query, it resolves
// answers and their credited users, combines engagement signals into one
// composite score per answer, rolls scores up per user, and converts the
// per-user totals into a filtered, star-rated ranking. Percentile-based fields
// are batch-relative: they are only valid once the full batch for a query has
// been scored, so the pipeline runs as two sequential passes over an in-memory
// collection.
package scoring
