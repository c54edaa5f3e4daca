// Package server hosts the MCP tool surface over stdio, SSE, or
// streamable HTTP. It owns transport lifecycle only; tool behavior lives
// in internal/tools and credential handling in internal/auth.
package server
