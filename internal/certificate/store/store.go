// Package store holds RecordStore implementations for issued certificates.
// The store is append-only: records never change after creation except for
// the one-way Active -> Revoked status transition.
package store

import (
	"context"
	"time"

	"certivault/internal/certificate/models"
)

// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound (wrapped) when the record does not exist
// - Return sentinel.ErrConflict (wrapped) when Put hits an existing ID
// - Return wrapped infrastructure errors for everything else; services
//   translate those into CodeUnavailable so callers can retry

// RecordStore is the persistence boundary for certificate records.
type RecordStore interface {
	Put(ctx context.Context, cert models.Certificate) error
	FindByID(ctx context.Context, certificateID string) (models.Certificate, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error)
	SetStatus(ctx context.Context, certificateID string, status models.Status, at time.Time) error
}
