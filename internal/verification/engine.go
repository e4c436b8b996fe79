// Package verification classifies the integrity state of issued
// certificates against their official records.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"certivault/internal/audit"
	"certivault/internal/certificate/digest"
	"certivault/internal/certificate/models"
	"certivault/internal/platform/metrics"
	dErrors "certivault/pkg/domain-errors"
	"certivault/pkg/platform/sentinel"
	"certivault/pkg/requestcontext"
)

// RecordStore is the read-side of the certificate store.
type RecordStore interface {
	FindByID(ctx context.Context, certificateID string) (models.Certificate, error)
}

// DocumentStore resolves document references for self-check mode.
type DocumentStore interface {
	Fetch(ctx context.Context, documentRef string) ([]byte, error)
}

// Engine recomputes content digests and compares them against the official
// record. It holds no mutable state; verification is a pure function of its
// inputs plus the stores' current content.
type Engine struct {
	records        RecordStore
	documents      DocumentStore
	auditor        *audit.Publisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	storageTimeout time.Duration
}

func NewEngine(records RecordStore, documents DocumentStore, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics, storageTimeout time.Duration) *Engine {
	return &Engine{
		records:        records,
		documents:      documents,
		auditor:        auditor,
		logger:         logger,
		metrics:        m,
		storageTimeout: storageTimeout,
	}
}

// Verify classifies the certificate with the given ID.
//
// currentDocument selects the mode: nil means self-check (the document is
// fetched via the record's documentRef); non-nil means re-verify against the
// supplied bytes. Tampered, Revoked and NotFound are outcomes on the result,
// never errors. An error is returned only when the check itself could not be
// performed, so callers can tell "doesn't exist" from "couldn't check".
func (e *Engine) Verify(ctx context.Context, certificateID string, currentDocument []byte) (models.VerificationResult, error) {
	if certificateID == "" {
		return models.VerificationResult{}, dErrors.New(dErrors.CodeBadRequest, "certificate id is required")
	}

	findCtx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()
	cert, err := e.records.FindByID(findCtx, certificateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return e.finish(ctx, models.VerificationResult{
				CertificateID: certificateID,
				Outcome:       models.OutcomeNotFound,
			}), nil
		}
		return models.VerificationResult{}, dErrors.Wrap(dErrors.CodeUnavailable, "record store unavailable", err)
	}

	snapshot := cert
	if cert.Status == models.StatusRevoked {
		// Revocation takes precedence over integrity: a revoked certificate
		// must never read back as trustworthy, even with matching content.
		return e.finish(ctx, models.VerificationResult{
			CertificateID: certificateID,
			Outcome:       models.OutcomeRevoked,
			Certificate:   &snapshot,
		}), nil
	}

	document := currentDocument
	if document == nil {
		fetchCtx, cancel := context.WithTimeout(ctx, e.storageTimeout)
		defer cancel()
		document, err = e.documents.Fetch(fetchCtx, cert.DocumentRef)
		if err != nil {
			// A missing document means the check cannot be performed, not
			// that the certificate is tampered.
			return models.VerificationResult{}, dErrors.Wrap(dErrors.CodeUnavailable, "document store unavailable", err)
		}
	}

	fields := digest.AttestedFields(cert.StudentName, cert.StudentID, cert.Course, cert.IssueDate, cert.IssuerName)
	recomputed, err := digest.Compute(fields, document)
	if err != nil {
		return models.VerificationResult{}, err
	}
	official, err := digest.ParseHex(cert.OfficialDigest)
	if err != nil {
		return models.VerificationResult{}, dErrors.Wrap(dErrors.CodeInternal, "stored digest is malformed", err)
	}

	outcome := models.OutcomeTampered
	if recomputed.Equal(official) {
		outcome = models.OutcomeVerified
	}
	return e.finish(ctx, models.VerificationResult{
		CertificateID:    certificateID,
		Outcome:          outcome,
		RecomputedDigest: recomputed.Hex(),
		Certificate:      &snapshot,
	}), nil
}

func (e *Engine) finish(ctx context.Context, result models.VerificationResult) models.VerificationResult {
	e.metrics.Verifications.WithLabelValues(string(result.Outcome)).Inc()
	e.auditor.Emit(ctx, audit.Event{
		Action:        audit.ActionCertificateVerified,
		CertificateID: result.CertificateID,
		Actor:         requestcontext.IssuerID(ctx),
		Outcome:       string(result.Outcome),
	})
	if result.Outcome == models.OutcomeTampered {
		e.logger.WarnContext(ctx, "certificate content mismatch",
			"certificate_id", result.CertificateID,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return result
}
