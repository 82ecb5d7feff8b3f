// Package grpc contains gRPC service implementations.
//
// This package is organized by concern:
//
//   - game/: GameService, the only public surface, plus its JSON client
//   - interceptors/: audit journal writes for every unary call
//   - metadata/: request correlation and locale headers
package grpc
