// Package grant issues and verifies player grants.
//
// A player grant is an EdDSA-signed JWT that binds the bearer to one game.
// The game service hands it out on creation and requires it on every move.
package grant

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/minefield/internal/platform/config"
	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
)

const (
	// Issuer is the iss claim on every player grant.
	Issuer = "minefield-game"
	// Audience is the aud claim on every player grant.
	Audience = "minefield-player"

	// EnvPrivateKey names the base64 Ed25519 private key variable.
	EnvPrivateKey = "MINEFIELD_PLAYER_GRANT_PRIVATE_KEY"
	// EnvTTL names the grant lifetime variable.
	EnvTTL = "MINEFIELD_PLAYER_GRANT_TTL"
)

type grantEnv struct {
	PrivateKey string        `env:"MINEFIELD_PLAYER_GRANT_PRIVATE_KEY"`
	TTL        time.Duration `env:"MINEFIELD_PLAYER_GRANT_TTL" envDefault:"24h"`
}

// Config holds the signing key and lifetime for player grants. A Config
// without a key has grants disabled.
type Config struct {
	Key ed25519.PrivateKey
	TTL time.Duration
	Now func() time.Time
}

// Claims captures validated player grant claims.
type Claims struct {
	GameID    string
	JWTID     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type playerClaims struct {
	jwt.RegisteredClaims
	GameID string `json:"game_id"`
}

// LoadConfigFromEnv reads the grant key and TTL. An empty key is not an
// error; it yields a disabled Config.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw grantEnv
	if err := config.ParseEnv(&raw); err != nil {
		return Config{}, fmt.Errorf("parse player grant env: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	privateKey := strings.TrimSpace(raw.PrivateKey)
	if privateKey == "" {
		return Config{Now: now}, nil
	}
	keyBytes, err := decodeBase64(privateKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode player grant private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return Config{}, fmt.Errorf("player grant private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if raw.TTL <= 0 {
		return Config{}, fmt.Errorf("player grant ttl must be positive")
	}
	return Config{Key: ed25519.PrivateKey(keyBytes), TTL: raw.TTL, Now: now}, nil
}

// Enabled reports whether grants are issued and enforced.
func (c Config) Enabled() bool {
	return len(c.Key) == ed25519.PrivateKeySize
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

// Issue signs a grant for gameID identified by jti.
func Issue(cfg Config, gameID, jti string) (string, Claims, error) {
	if !cfg.Enabled() {
		return "", Claims{}, errors.New("player grant signer is not configured")
	}
	if strings.TrimSpace(gameID) == "" || strings.TrimSpace(jti) == "" {
		return "", Claims{}, errors.New("player grant requires game id and jti")
	}
	issuedAt := cfg.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(cfg.TTL)

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, playerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ID:        jti,
		},
		GameID: gameID,
	})
	signed, err := token.SignedString(cfg.Key)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign player grant: %w", err)
	}
	return signed, Claims{GameID: gameID, JWTID: jti, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// Validate verifies the signature and claims of a grant for gameID.
func Validate(cfg Config, token, gameID string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodePlayerGrantInvalid, "player grant is required")
	}
	if !cfg.Enabled() {
		return Claims{}, errors.New("player grant verifier is not configured")
	}
	publicKey, ok := cfg.Key.Public().(ed25519.PublicKey)
	if !ok {
		return Claims{}, errors.New("player grant verifier is not configured")
	}

	var parsed playerClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return publicKey, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer != Issuer {
		return Claims{}, mismatch("issuer")
	}
	if !slices.Contains([]string(parsed.Audience), Audience) {
		return Claims{}, mismatch("audience")
	}
	if parsed.ID == "" {
		return Claims{}, apperrors.New(apperrors.CodePlayerGrantInvalid, "player grant jti is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodePlayerGrantInvalid, "player grant exp is required")
	}
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(cfg.now()) {
		return Claims{}, apperrors.New(apperrors.CodePlayerGrantExpired, "player grant is expired")
	}
	if strings.TrimSpace(parsed.GameID) == "" || parsed.GameID != gameID {
		return Claims{}, mismatch("game_id")
	}

	claims := Claims{GameID: parsed.GameID, JWTID: parsed.ID, ExpiresAt: exp}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

func mismatch(field string) error {
	return apperrors.WithMetadata(
		apperrors.CodePlayerGrantMismatch,
		"player grant "+field+" mismatch",
		map[string]string{"Field": field},
	)
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.Wrap(apperrors.CodePlayerGrantInvalid, "player grant signature is invalid", err)
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.Wrap(apperrors.CodePlayerGrantInvalid, "player grant alg is invalid", err)
	}
	return apperrors.Wrap(apperrors.CodePlayerGrantInvalid, "player grant is invalid", err)
}

func decodeBase64(value string) ([]byte, error) {
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
