// Package server wires the chat handler into an HTTP server with CORS,
// request-ID, logging, metrics and panic-recovery middleware, plus
// /health and /metrics endpoints.
package server
