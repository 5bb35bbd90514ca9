// Package main is the entry point for the fieldex server.
//
// The server exposes a REST API over an ERP host's record pages: it
// fetches a record's XML view, decodes it into ordered field mappings,
// classifies field values for display, and exports JSON and CSV
// downloads. It also manages the navigation hide lists used to trim
// the host's menu, per account or globally.
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional config file (-config app.toml or app.yaml), file wins
//   - CLI flags (override both)
//
// Usage:
//
//	./server -config fieldex.toml
//	./server -port 8090
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
