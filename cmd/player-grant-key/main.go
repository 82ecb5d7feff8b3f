// Package main provides a one-shot utility for player grant key generation.
//
// It prints the Ed25519 key pair the game service signs player grants with.
package main

import (
	"os"

	"github.com/louisbranch/minefield/internal/platform/config"
	"github.com/louisbranch/minefield/internal/tools/playergrant"
)

func main() {
	if err := playergrant.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate player grant key: %v", err)
	}
}
