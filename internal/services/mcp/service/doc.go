// Package service hosts the minefield MCP server over stdio or streamable
// HTTP, backed by a health-checked connection to the game service.
package service
