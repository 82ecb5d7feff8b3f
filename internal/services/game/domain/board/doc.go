// Package board implements the minesweeper rule engine.
//
// A Layout fixes where the mines are and the neighbour count of every cell.
// An Engine owns one game: the visible grid, the flag budget, and the phase.
// The package is synchronous and performs no locking or logging; callers
// that share an Engine across goroutines must serialize access themselves.
package board
