// Package logging assembles structured slog loggers and formatting helpers used
// across albumconv.
//
// It owns the configurable console/JSON handlers, the optional per-run JSON log
// file, and context-aware helpers so pipeline code can tag log lines with the
// batch correlation ID, stage, and source path. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
