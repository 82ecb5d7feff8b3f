package domain

import "sync"

// GrantStore remembers the player grant issued for each game this adapter
// created, so tool callers never see or pass tokens.
type GrantStore struct {
	mu     sync.RWMutex
	grants map[string]string
}

// NewGrantStore creates an empty store.
func NewGrantStore() *GrantStore {
	return &GrantStore{grants: make(map[string]string)}
}

// Put records token for gameID. Empty tokens are ignored.
func (s *GrantStore) Put(gameID, token string) {
	if s == nil || gameID == "" || token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[gameID] = token
}

// Get returns the grant for gameID, or "" when none was recorded.
func (s *GrantStore) Get(gameID string) string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[gameID]
}
