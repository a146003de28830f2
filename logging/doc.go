// Package logging provides structured logging for fluentlite.
//
// This package wraps Go's standard log/slog package so the facade can
// accept an injected logging capability instead of writing to ambient
// process-wide streams.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (library, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("connected", "path", dbPath)
//	logger.Error("query failed", "error", err)
//
// When logging is disabled, use logging.Discard() — it satisfies the
// same interface and drops every record.
package logging
