package store

import (
	"context"
	"fmt"
	"sync"

	"certivault/pkg/platform/sentinel"
)

// InMemoryDocumentStore keeps documents in memory for tests/dev.
type InMemoryDocumentStore struct {
	mu        sync.RWMutex
	documents map[string][]byte
}

// NewInMemory constructs an empty in-memory document store.
func NewInMemory() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{documents: make(map[string][]byte)}
}

func (s *InMemoryDocumentStore) Store(_ context.Context, document []byte) (string, error) {
	if len(document) == 0 {
		return "", fmt.Errorf("empty document: %w", sentinel.ErrInvalidState)
	}
	ref := Ref(document)
	s.mu.Lock()
	defer s.mu.Unlock()
	// Same content yields the same ref; storing twice is a no-op.
	if _, exists := s.documents[ref]; !exists {
		s.documents[ref] = append([]byte(nil), document...)
	}
	return ref, nil
}

func (s *InMemoryDocumentStore) Fetch(_ context.Context, documentRef string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	document, ok := s.documents[documentRef]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", documentRef, sentinel.ErrNotFound)
	}
	return append([]byte(nil), document...), nil
}
