package domain

import "github.com/louisbranch/minefield/internal/platform/timeouts"

// grpcCallTimeout caps the time for a single gRPC call from an MCP tool handler.
const grpcCallTimeout = timeouts.GRPCRequest
