// Package service implements certificate issuance and revocation against the
// record and document store collaborators.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"certivault/internal/audit"
	"certivault/internal/certificate/digest"
	"certivault/internal/certificate/models"
	"certivault/internal/document/store"
	"certivault/internal/platform/metrics"
	dErrors "certivault/pkg/domain-errors"
	"certivault/pkg/platform/sentinel"
	"certivault/pkg/requestcontext"
)

// RecordStore is the subset of the certificate store the service needs.
type RecordStore interface {
	Put(ctx context.Context, cert models.Certificate) error
	FindByID(ctx context.Context, certificateID string) (models.Certificate, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error)
	SetStatus(ctx context.Context, certificateID string, status models.Status, at time.Time) error
}

// Service turns certificate requests into immutable records. Storage and
// HTTP concerns live in other layers.
type Service struct {
	records        RecordStore
	documents      store.DocumentStore
	auditor        *audit.Publisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	storageTimeout time.Duration
}

func New(records RecordStore, documents store.DocumentStore, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics, storageTimeout time.Duration) *Service {
	return &Service{
		records:        records,
		documents:      documents,
		auditor:        auditor,
		logger:         logger,
		metrics:        m,
		storageTimeout: storageTimeout,
	}
}

// Issue validates the request, stores the document, computes the official
// digest, and writes the record. The record write is the single mutation:
// either the full record becomes visible or nothing does.
func (s *Service) Issue(ctx context.Context, req models.CertificateRequest) (string, error) {
	fields := digest.AttestedFields(req.StudentName, req.StudentID, req.Course, req.IssueDate, req.IssuerName)
	officialDigest, err := digest.Compute(fields, req.Document)
	if err != nil {
		return "", err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	documentRef, err := s.documents.Store(storeCtx, req.Document)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeUnavailable, "document store unavailable", err)
	}

	cert := models.Certificate{
		CertificateID:  uuid.NewString(),
		StudentName:    req.StudentName,
		StudentID:      req.StudentID,
		Course:         req.Course,
		IssueDate:      req.IssueDate,
		IssuerName:     req.IssuerName,
		DocumentRef:    documentRef,
		OfficialDigest: officialDigest.Hex(),
		Status:         models.StatusActive,
		IssuedAt:       requestcontext.Now(ctx).UTC(),
	}

	putCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if err := s.records.Put(putCtx, cert); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// A fresh UUID colliding means something is badly wrong upstream.
			return "", dErrors.Wrap(dErrors.CodeInternal, "certificate id collision", err)
		}
		return "", dErrors.Wrap(dErrors.CodeUnavailable, "record store unavailable", err)
	}

	s.metrics.CertificatesIssued.Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:        audit.ActionCertificateIssued,
		CertificateID: cert.CertificateID,
		Actor:         requestcontext.IssuerID(ctx),
	})
	s.logger.InfoContext(ctx, "certificate issued",
		"certificate_id", cert.CertificateID,
		"issuer", cert.IssuerName,
		"request_id", requestcontext.RequestID(ctx),
	)
	return cert.CertificateID, nil
}

// Revoke flips a certificate to Revoked. The transition is one-way; revoking
// an already revoked certificate is a no-op.
func (s *Service) Revoke(ctx context.Context, certificateID string) error {
	if certificateID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "certificate id is required")
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	err := s.records.SetStatus(storeCtx, certificateID, models.StatusRevoked, requestcontext.Now(ctx).UTC())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "certificate not found")
		}
		return dErrors.Wrap(dErrors.CodeUnavailable, "record store unavailable", err)
	}

	s.metrics.CertificatesRevoked.Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:        audit.ActionCertificateRevoked,
		CertificateID: certificateID,
		Actor:         requestcontext.IssuerID(ctx),
	})
	return nil
}

// ListByStudent returns the certificates held by one student.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	if studentID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "student id is required")
	}
	storeCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	certs, err := s.records.ListByStudent(storeCtx, studentID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "record store unavailable", err)
	}
	return certs, nil
}
