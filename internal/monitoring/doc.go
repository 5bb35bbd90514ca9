// Package monitoring provides Prometheus metrics for the HTTP surface
// and the record/navigation domains, plus the Gin middleware that
// records per-request series.
package monitoring
