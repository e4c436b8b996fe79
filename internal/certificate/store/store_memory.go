package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"certivault/internal/certificate/models"
	"certivault/pkg/platform/sentinel"
)

// InMemoryRecordStore keeps certificate records in memory for tests/dev.
// Records are copied on the way in and out so callers never share state
// with the store.
type InMemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]models.Certificate
}

// NewInMemory constructs an empty in-memory record store.
func NewInMemory() *InMemoryRecordStore {
	return &InMemoryRecordStore{records: make(map[string]models.Certificate)}
}

func (s *InMemoryRecordStore) Put(_ context.Context, cert models.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[cert.CertificateID]; exists {
		return fmt.Errorf("certificate %s already issued: %w", cert.CertificateID, sentinel.ErrConflict)
	}
	s.records[cert.CertificateID] = cert
	return nil
}

func (s *InMemoryRecordStore) FindByID(_ context.Context, certificateID string) (models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cert, ok := s.records[certificateID]; ok {
		return cert, nil
	}
	return models.Certificate{}, fmt.Errorf("certificate %s: %w", certificateID, sentinel.ErrNotFound)
}

func (s *InMemoryRecordStore) ListByStudent(_ context.Context, studentID string) ([]models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var certs []models.Certificate
	for _, cert := range s.records {
		if cert.StudentID == studentID {
			certs = append(certs, cert)
		}
	}
	sort.Slice(certs, func(i, j int) bool {
		return certs[i].IssuedAt.Before(certs[j].IssuedAt)
	})
	return certs, nil
}

func (s *InMemoryRecordStore) SetStatus(_ context.Context, certificateID string, status models.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cert, ok := s.records[certificateID]
	if !ok {
		return fmt.Errorf("certificate %s: %w", certificateID, sentinel.ErrNotFound)
	}
	if cert.Status == models.StatusRevoked && status != models.StatusRevoked {
		return fmt.Errorf("certificate %s is revoked: %w", certificateID, sentinel.ErrInvalidState)
	}
	cert.Status = status
	if status == models.StatusRevoked && cert.RevokedAt == nil {
		cert.RevokedAt = &at
	}
	s.records[certificateID] = cert
	return nil
}
