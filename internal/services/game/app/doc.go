// Package server composes application services for the game gRPC entrypoint.
//
// It wires the audit journal, player grant keys, interceptors, and the
// GameService into a runnable server instance.
package server
