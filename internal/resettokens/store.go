// Package resettokens owns the password-reset tokens the dev API server
// mints and checks. Tokens map to the account email they were issued for and
// expire on their own.
package resettokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Store provides reset-token persistence. Lookup returns the empty string for
// unknown or expired tokens.
type Store interface {
	Mint(ctx context.Context, email string, ttl time.Duration) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Consume(ctx context.Context, token string) error
}

// newToken generates an opaque 64-char hex token.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MemoryStore is the fallback when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	email     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}}
}

func (s *MemoryStore) Mint(_ context.Context, email string, ttl time.Duration) (string, error) {
	tok, err := newToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.entries[tok] = memoryEntry{email: email, expiresAt: time.Now().UTC().Add(ttl)}
	s.mu.Unlock()
	return tok, nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return "", nil
	}
	if time.Now().UTC().After(e.expiresAt) {
		delete(s.entries, token)
		return "", nil
	}
	return e.email, nil
}

func (s *MemoryStore) Consume(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}
