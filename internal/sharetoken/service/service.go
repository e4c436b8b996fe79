// Package service mints and redeems share tokens: time-boxed capabilities
// that let a third party verify exactly one certificate.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"certivault/internal/audit"
	"certivault/internal/certificate/models"
	"certivault/internal/platform/metrics"
	tokenmodels "certivault/internal/sharetoken/models"
	"certivault/internal/sharetoken/store"
	dErrors "certivault/pkg/domain-errors"
	"certivault/pkg/platform/sentinel"
	"certivault/pkg/requestcontext"
)

// tokenBytes sizes the random token value. 32 bytes keeps guessing
// infeasible for the lifetime of any token.
const tokenBytes = 32

// CertificateReader checks that a certificate exists before a token is
// minted for it.
type CertificateReader interface {
	FindByID(ctx context.Context, certificateID string) (models.Certificate, error)
}

// Verifier is the verification entry point a redeemed token unlocks.
type Verifier interface {
	Verify(ctx context.Context, certificateID string, currentDocument []byte) (models.VerificationResult, error)
}

// Service issues and redeems share tokens.
type Service struct {
	tokens         store.TokenStore
	records        CertificateReader
	verifier       Verifier
	auditor        *audit.Publisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	maxTTL         time.Duration
	storageTimeout time.Duration
}

func New(tokens store.TokenStore, records CertificateReader, verifier Verifier, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics, maxTTL, storageTimeout time.Duration) *Service {
	return &Service{
		tokens:         tokens,
		records:        records,
		verifier:       verifier,
		auditor:        auditor,
		logger:         logger,
		metrics:        m,
		maxTTL:         maxTTL,
		storageTimeout: storageTimeout,
	}
}

// CreateToken mints a token bound to one existing certificate. The TTL must
// be positive and within the configured maximum so no capability lives
// indefinitely.
func (s *Service) CreateToken(ctx context.Context, certificateID string, ttl time.Duration) (tokenmodels.ShareToken, error) {
	if certificateID == "" {
		return tokenmodels.ShareToken{}, dErrors.New(dErrors.CodeBadRequest, "certificate id is required")
	}
	if ttl <= 0 {
		return tokenmodels.ShareToken{}, dErrors.New(dErrors.CodeBadRequest, "ttl must be positive")
	}
	if ttl > s.maxTTL {
		return tokenmodels.ShareToken{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("ttl exceeds maximum of %s", s.maxTTL))
	}

	findCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if _, err := s.records.FindByID(findCtx, certificateID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return tokenmodels.ShareToken{}, dErrors.New(dErrors.CodeNotFound, "certificate not found")
		}
		return tokenmodels.ShareToken{}, dErrors.Wrap(dErrors.CodeUnavailable, "record store unavailable", err)
	}

	value, err := newTokenValue()
	if err != nil {
		return tokenmodels.ShareToken{}, dErrors.Wrap(dErrors.CodeInternal, "token generation failed", err)
	}
	now := requestcontext.Now(ctx).UTC()
	token := tokenmodels.ShareToken{
		Token:         value,
		CertificateID: certificateID,
		IssuedAt:      now,
		ExpiresAt:     now.Add(ttl),
	}

	putCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if err := s.tokens.Put(putCtx, token); err != nil {
		return tokenmodels.ShareToken{}, dErrors.Wrap(dErrors.CodeUnavailable, "token store unavailable", err)
	}

	s.metrics.ShareTokensMinted.Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:        audit.ActionShareTokenMinted,
		CertificateID: certificateID,
		Actor:         requestcontext.IssuerID(ctx),
	})
	return token, nil
}

// Redeem resolves a token and runs verification scoped to the certificate
// the token was minted for. Any certificate ID the caller supplies elsewhere
// is ignored: the binding happens at mint time, so a leaked token cannot
// probe unrelated certificates.
func (s *Service) Redeem(ctx context.Context, tokenValue string, currentDocument []byte) (models.VerificationResult, error) {
	if tokenValue == "" {
		return models.VerificationResult{}, dErrors.New(dErrors.CodeBadRequest, "token is required")
	}

	getCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	token, err := s.tokens.Get(getCtx, tokenValue)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.ShareTokensRedeemed.WithLabelValues("not_found").Inc()
			return models.VerificationResult{}, dErrors.New(dErrors.CodeUnauthorized, "share token not found")
		}
		return models.VerificationResult{}, dErrors.Wrap(dErrors.CodeUnavailable, "token store unavailable", err)
	}
	if token.Expired(requestcontext.Now(ctx)) {
		s.metrics.ShareTokensRedeemed.WithLabelValues("expired").Inc()
		return models.VerificationResult{}, dErrors.New(dErrors.CodeTokenExpired, "share token has expired")
	}

	result, err := s.verifier.Verify(ctx, token.CertificateID, currentDocument)
	if err != nil {
		return models.VerificationResult{}, err
	}

	s.metrics.ShareTokensRedeemed.WithLabelValues("ok").Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:        audit.ActionShareTokenRedeemed,
		CertificateID: token.CertificateID,
		Outcome:       string(result.Outcome),
	})
	return result, nil
}

func newTokenValue() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
