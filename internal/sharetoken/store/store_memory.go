// Package store holds TokenStore implementations for share tokens.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"certivault/internal/sharetoken/models"
	"certivault/pkg/platform/sentinel"
)

// TokenStore is the persistence boundary for share tokens.
type TokenStore interface {
	Put(ctx context.Context, token models.ShareToken) error
	Get(ctx context.Context, tokenValue string) (models.ShareToken, error)
}

// InMemoryTokenStore keeps share tokens in memory for tests/dev. Expired
// tokens stay until DeleteExpired runs; Get still reports them so the
// service can distinguish expired from unknown.
type InMemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]models.ShareToken
}

// NewInMemory constructs an empty in-memory token store.
func NewInMemory() *InMemoryTokenStore {
	return &InMemoryTokenStore{tokens: make(map[string]models.ShareToken)}
}

func (s *InMemoryTokenStore) Put(_ context.Context, token models.ShareToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
	return nil
}

func (s *InMemoryTokenStore) Get(_ context.Context, tokenValue string) (models.ShareToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if token, ok := s.tokens[tokenValue]; ok {
		return token, nil
	}
	return models.ShareToken{}, fmt.Errorf("share token: %w", sentinel.ErrNotFound)
}

// DeleteExpired removes all tokens expired as of the given time. The time is
// injected for testability; the janitor passes the wall clock.
func (s *InMemoryTokenStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for value, token := range s.tokens {
		if token.Expired(now) {
			delete(s.tokens, value)
			deleted++
		}
	}
	return deleted, nil
}
