package config

import (
	"fmt"
	"os"
)

// Exitf writes a formatted message to stderr and exits with code 1.
// One-shot tools use it instead of log.Fatalf so output carries no log prefix.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
