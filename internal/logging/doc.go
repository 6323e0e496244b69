// Package logging assembles the structured slog loggers used across
// wardwatch.
//
// It centralizes level and format plumbing (console text or JSON, optional
// log file alongside stdout) and provides a no-op logger for tests and
// wiring code that cannot fail. Prefer these constructors over hand-rolled
// slog setup so every component emits data with the same shape.
package logging
