// Package server wires configuration, the service registry, the record
// fetch pipeline, and the navigation stores into the HTTP server.
package server
