// Package http provides the Gin handlers for the fieldex API: record
// inspection and export, raw XML decoding, service discovery, and
// navigation hide-list management.
package http
