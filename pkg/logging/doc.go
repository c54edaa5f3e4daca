// Package logging provides structured, subsystem-tagged logging built on
// Go's standard slog package.
//
// All log entries carry a subsystem identifier ("Auth", "Jira", "Server",
// "Tools", ...) so that log aggregation can filter by component. Output is
// a text handler writing to the writer passed to Init; the serve command
// always passes stderr because stdout is reserved for the stdio MCP
// transport.
//
// Usage:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("Server", "listening on %s", addr)
//	logging.Error("Auth", err, "token refresh failed")
//
// Credential material must never reach this package in plain form; wrap
// tokens in auth.RedactedToken before logging anything derived from them.
package logging
