// Package cursor provides opaque pagination token encoding/decoding.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Scope names the listing a cursor belongs to so a token from one listing
// is rejected by another.
type Scope string

const (
	// ScopeGames paginates the game listing.
	ScopeGames Scope = "games"
	// ScopeEvents paginates the audit event listing.
	ScopeEvents Scope = "events"
)

// Cursor is the decoded state of a forward pagination token.
type Cursor struct {
	// Scope is the listing the cursor was issued for.
	Scope Scope `json:"scope"`
	// Seq is the last sequence number already returned; the next page
	// starts strictly after it.
	Seq uint64 `json:"seq"`
	// FilterHash invalidates the token when the filter changes.
	FilterHash string `json:"filter_hash,omitempty"`
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque token issued for scope.
func Decode(token string, scope Scope) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.Scope != scope {
		return Cursor{}, fmt.Errorf("cursor scope %q does not match %q", c.Scope, scope)
	}
	return c, nil
}

// HashFilter computes a short hash of the filter string for cursor validation.
// Returns empty string for empty filter.
func HashFilter(filter string) string {
	if filter == "" {
		return ""
	}
	h := sha256.Sum256([]byte(filter))
	return hex.EncodeToString(h[:8])
}

// ValidateFilterHash checks that the cursor was issued for currentFilter.
func ValidateFilterHash(c Cursor, currentFilter string) error {
	if c.FilterHash != HashFilter(currentFilter) {
		return fmt.Errorf("filter changed since cursor was created")
	}
	return nil
}

// NewNextPageCursor creates the cursor for the page after lastSeq.
func NewNextPageCursor(scope Scope, lastSeq uint64, filter string) Cursor {
	return Cursor{Scope: scope, Seq: lastSeq, FilterHash: HashFilter(filter)}
}
