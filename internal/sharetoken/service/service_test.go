package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"certivault/internal/audit"
	"certivault/internal/certificate/digest"
	"certivault/internal/certificate/models"
	certstore "certivault/internal/certificate/store"
	docstore "certivault/internal/document/store"
	"certivault/internal/platform/metrics"
	"certivault/internal/sharetoken/store"
	"certivault/internal/verification"
	dErrors "certivault/pkg/domain-errors"
	"certivault/pkg/requestcontext"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

var testMetrics = metrics.New()

type ShareTokenSuite struct {
	suite.Suite
	records   *certstore.InMemoryRecordStore
	documents *docstore.InMemoryDocumentStore
	tokens    *store.InMemoryTokenStore
	service   *Service
}

func (s *ShareTokenSuite) SetupTest() {
	s.records = certstore.NewInMemory()
	s.documents = docstore.NewInMemory()
	s.tokens = store.NewInMemory()
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), slog.Default())
	engine := verification.NewEngine(s.records, s.documents, auditor, slog.Default(), testMetrics, time.Second)
	s.service = New(s.tokens, s.records, engine, auditor, slog.Default(), testMetrics, 7*24*time.Hour, time.Second)
}

func TestShareTokenSuite(t *testing.T) {
	suite.Run(t, new(ShareTokenSuite))
}

func (s *ShareTokenSuite) issue(course string, document []byte) models.Certificate {
	fields := digest.AttestedFields("Ada Lovelace", "STU-1815", course, "2023-11-01", "Global Tech Institute")
	official, err := digest.Compute(fields, document)
	s.Require().NoError(err)
	ref, err := s.documents.Store(context.Background(), document)
	s.Require().NoError(err)

	cert := models.Certificate{
		CertificateID:  uuid.NewString(),
		StudentName:    "Ada Lovelace",
		StudentID:      "STU-1815",
		Course:         course,
		IssueDate:      "2023-11-01",
		IssuerName:     "Global Tech Institute",
		DocumentRef:    ref,
		OfficialDigest: official.Hex(),
		Status:         models.StatusActive,
		IssuedAt:       time.Now().UTC(),
	}
	s.Require().NoError(s.records.Put(context.Background(), cert))
	return cert
}

func (s *ShareTokenSuite) TestCreateToken() {
	ctx := context.Background()
	cert := s.issue("Blockchain Fundamentals", []byte("PDF-CONTENT-1"))

	token, err := s.service.CreateToken(ctx, cert.CertificateID, time.Hour)
	s.Require().NoError(err)
	s.NotEmpty(token.Token)
	s.Equal(cert.CertificateID, token.CertificateID)
	s.True(token.ExpiresAt.Equal(token.IssuedAt.Add(time.Hour)))

	s.Run("token values are unique", func() {
		second, err := s.service.CreateToken(ctx, cert.CertificateID, time.Hour)
		s.Require().NoError(err)
		s.NotEqual(token.Token, second.Token)
	})
}

func (s *ShareTokenSuite) TestCreateTokenValidation() {
	ctx := context.Background()
	cert := s.issue("Blockchain Fundamentals", []byte("PDF-CONTENT-1"))

	s.Run("zero ttl rejected", func() {
		_, err := s.service.CreateToken(ctx, cert.CertificateID, 0)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("negative ttl rejected", func() {
		_, err := s.service.CreateToken(ctx, cert.CertificateID, -time.Minute)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("ttl above maximum rejected", func() {
		_, err := s.service.CreateToken(ctx, cert.CertificateID, 365*24*time.Hour)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown certificate rejected", func() {
		_, err := s.service.CreateToken(ctx, "no-such-certificate", time.Hour)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ShareTokenSuite) TestRedeem() {
	ctx := context.Background()
	cert := s.issue("Blockchain Fundamentals", []byte("PDF-CONTENT-1"))
	token, err := s.service.CreateToken(ctx, cert.CertificateID, time.Hour)
	s.Require().NoError(err)

	s.Run("self-check through token", func() {
		result, err := s.service.Redeem(ctx, token.Token, nil)
		s.Require().NoError(err)
		s.Equal(models.OutcomeVerified, result.Outcome)
		s.Equal(cert.CertificateID, result.CertificateID)
	})

	s.Run("tampered document through token", func() {
		result, err := s.service.Redeem(ctx, token.Token, []byte("PDF-CONTENT-2"))
		s.Require().NoError(err)
		s.Equal(models.OutcomeTampered, result.Outcome)
	})

	s.Run("tokens are multi-use before expiry", func() {
		result, err := s.service.Redeem(ctx, token.Token, nil)
		s.Require().NoError(err)
		s.Equal(models.OutcomeVerified, result.Outcome)
	})
}

// A token minted for certificate A never returns a result for certificate B,
// regardless of what the caller asks for elsewhere.
func (s *ShareTokenSuite) TestTokenScoping() {
	ctx := context.Background()
	certA := s.issue("Blockchain Fundamentals", []byte("PDF-CONTENT-1"))
	certB := s.issue("Project Management", []byte("OTHER-DOCUMENT"))

	token, err := s.service.CreateToken(ctx, certA.CertificateID, time.Hour)
	s.Require().NoError(err)

	result, err := s.service.Redeem(ctx, token.Token, nil)
	s.Require().NoError(err)
	s.Equal(certA.CertificateID, result.CertificateID)
	s.NotEqual(certB.CertificateID, result.CertificateID)
}

func (s *ShareTokenSuite) TestRedeemFailures() {
	ctx := context.Background()
	cert := s.issue("Blockchain Fundamentals", []byte("PDF-CONTENT-1"))

	s.Run("unknown token", func() {
		_, err := s.service.Redeem(ctx, "never-minted", nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty token", func() {
		_, err := s.service.Redeem(ctx, "", nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("expired token", func() {
		mintedAt := time.Now().Add(-2 * time.Hour)
		token, err := s.service.CreateToken(requestcontext.WithTime(ctx, mintedAt), cert.CertificateID, time.Hour)
		s.Require().NoError(err)

		_, err = s.service.Redeem(ctx, token.Token, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTokenExpired))
	})

	s.Run("redemption at the exact expiry instant still succeeds", func() {
		mintedAt := time.Now().Add(-time.Hour)
		token, err := s.service.CreateToken(requestcontext.WithTime(ctx, mintedAt), cert.CertificateID, time.Hour)
		s.Require().NoError(err)

		atBoundary := requestcontext.WithTime(ctx, token.ExpiresAt)
		result, err := s.service.Redeem(atBoundary, token.Token, nil)
		s.Require().NoError(err)
		s.Equal(models.OutcomeVerified, result.Outcome)

		justAfter := requestcontext.WithTime(ctx, token.ExpiresAt.Add(time.Nanosecond))
		_, err = s.service.Redeem(justAfter, token.Token, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTokenExpired))
	})

	s.Run("revoked certificate reports revoked through token", func() {
		token, err := s.service.CreateToken(ctx, cert.CertificateID, time.Hour)
		s.Require().NoError(err)
		s.Require().NoError(s.records.SetStatus(ctx, cert.CertificateID, models.StatusRevoked, time.Now()))

		result, err := s.service.Redeem(ctx, token.Token, nil)
		s.Require().NoError(err)
		s.Equal(models.OutcomeRevoked, result.Outcome)
	})
}
