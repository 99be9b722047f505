// Package logger builds the structured slog logger used by the probe: text
// output for local runs, JSON in production.
package logger
