// Package logging configures structured logging for the commune service.
//
// It wraps log/slog with level and format parsing so the rest of the
// codebase only deals with *slog.Logger values.
package logging
