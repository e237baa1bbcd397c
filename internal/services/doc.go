// Package services defines shared utilities consumed by the conversion
// pipeline and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, stage names, and source paths for
//     logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (validation vs external tool) with errors.Is.
//   - The CommandRunner seam that makes external tool execution testable.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
