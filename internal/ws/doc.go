// Package ws streams record inspection over WebSocket connections,
// emitting staged progress events while a record is fetched and decoded.
package ws
