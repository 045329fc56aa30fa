// Package httpx provides the HTTP middleware applied to the SSE and
// streamable HTTP transports: common security headers and a permissive
// CORS policy for browser-based MCP clients.
package httpx
