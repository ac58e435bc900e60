// Package seance implements the chat relay: request validation, history
// sanitization, prompt assembly and the HTTP handler that ties them to
// the identity resolver, rate limiter and generation client.
//
// The handler's outcomes map one-to-one onto HTTP statuses: 401 for an
// unresolvable mandatory identity, 429 for a rate-limited caller, 400
// with a precise reason for invalid payloads, and deliberately generic
// 500s for configuration and upstream failures.
package seance
