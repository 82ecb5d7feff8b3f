// Package random provides seed generation for board layouts.
//
// Seeds come from crypto/rand in production; callers may pin a seed to
// replay a layout.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// Seed sources reported alongside a resolved seed.
const (
	SeedSourceClient = "CLIENT"
	SeedSourceServer = "SERVER"
)

// SeedFunc produces a fresh seed.
type SeedFunc func() (int64, error)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns the requested seed when one is provided and a freshly
// generated one otherwise, together with where it came from.
func ResolveSeed(requested *int64, seedFunc SeedFunc) (int64, string, error) {
	if requested != nil {
		return *requested, SeedSourceClient, nil
	}
	if seedFunc == nil {
		seedFunc = NewSeed
	}
	seed, err := seedFunc()
	if err != nil {
		return 0, "", err
	}
	return seed, SeedSourceServer, nil
}
