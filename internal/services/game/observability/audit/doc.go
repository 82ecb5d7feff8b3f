// Package audit writes the game service audit journal.
//
// Each gRPC call produces one event. The journal is for operators; game state
// is never rebuilt from it. Distributed tracing lives in package
// `internal/platform/otel`.
package audit
