// Package metadata provides utilities for handling gRPC request metadata.
//
// It defines the header keys the game service reads and provides a unary
// interceptor that guarantees every call carries a request ID.
//
// # Header Constants
//
//   - RequestIDHeader: Correlates logs and audit events across service calls.
//   - InvocationIDHeader: Tracks MCP tool invocations.
//   - LocaleHeader: Selects the language of status lines and error messages.
package metadata
