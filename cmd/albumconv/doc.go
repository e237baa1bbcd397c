// Package main hosts the albumconv CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once, builds the
// structured logger and hands album conversions to internal/convert. The
// remaining commands are diagnostics: content-based format detection,
// external tool availability and configuration scaffolding.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
