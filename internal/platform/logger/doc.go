// Package logger configures the application's structured JSON logging
// on top of log/slog and carries a request-scoped logger through
// context so stores and services log with the caller's trace fields.
package logger
