// Package playergrant generates the Ed25519 key pair that signs player grants.
package playergrant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/louisbranch/minefield/internal/services/game/domain/grant"
)

// EnvPublicKey names the exported public key. The game service derives it
// from the private key; it is printed for out-of-process verifiers.
const EnvPublicKey = "MINEFIELD_PLAYER_GRANT_PUBLIC_KEY"

// Run generates a player grant key pair and writes exports.
func Run(out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate player grant key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", grant.EnvPrivateKey, base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", EnvPublicKey, base64.RawStdEncoding.EncodeToString(publicKey)); err != nil {
		return err
	}
	return nil
}
