// Package timeouts defines timeout constants shared by the minefield services.
package timeouts

import "time"

// GRPCDial caps the wait for a gRPC peer to report healthy.
const GRPCDial = 2 * time.Second

// GRPCRequest caps a single gRPC request issued by the MCP adapter.
const GRPCRequest = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests on exit.
const Shutdown = 5 * time.Second
