// Package server implements the HTTP server using Echo framework.
//
// Routes: expert query API, liveness/readiness probes, Prometheus metrics.
// The query route sits behind a per-IP rate limiter.
package server
