// Package game exposes minefield.game.v1.GameService over gRPC.
//
// Games live in a process-local Registry. Each game is owned by one session
// whose mutex serializes engine calls, so the board engine itself stays a
// plain single-owner struct. Messages are plain Go structs carried by the
// JSON codec registered in internal/platform/grpc.
//
// Moves require the player grant issued by CreateGame when a signing key is
// configured. Errors leave the service as gRPC statuses with ErrorInfo and a
// LocalizedMessage in the caller's locale.
package game
