package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"certivault/internal/audit"
	"certivault/internal/certificate/models"
	certstore "certivault/internal/certificate/store"
	docstore "certivault/internal/document/store"
	"certivault/internal/platform/metrics"
	dErrors "certivault/pkg/domain-errors"
	"certivault/pkg/requestcontext"

	"github.com/stretchr/testify/suite"
)

var testMetrics = metrics.New()

type ServiceSuite struct {
	suite.Suite
	records    *certstore.InMemoryRecordStore
	documents  *docstore.InMemoryDocumentStore
	auditStore *audit.InMemoryStore
	service    *Service
}

func (s *ServiceSuite) SetupTest() {
	s.records = certstore.NewInMemory()
	s.documents = docstore.NewInMemory()
	s.auditStore = audit.NewInMemoryStore()
	auditor := audit.NewPublisher(s.auditStore, slog.Default())
	s.service = New(s.records, s.documents, auditor, slog.Default(), testMetrics, time.Second)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func validRequest() models.CertificateRequest {
	return models.CertificateRequest{
		StudentName: "Ada Lovelace",
		StudentID:   "STU-1815",
		Course:      "Blockchain Fundamentals",
		IssueDate:   "2023-11-01",
		IssuerName:  "Global Tech Institute",
		Document:    []byte("PDF-CONTENT-1"),
	}
}

func (s *ServiceSuite) TestIssueCreatesImmutableRecord() {
	ctx := context.Background()

	certificateID, err := s.service.Issue(ctx, validRequest())
	s.Require().NoError(err)
	s.Require().NotEmpty(certificateID)

	cert, err := s.records.FindByID(ctx, certificateID)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, cert.Status)
	s.NotEmpty(cert.OfficialDigest)
	s.Equal(docstore.Ref([]byte("PDF-CONTENT-1")), cert.DocumentRef)

	// The document must resolve back to the attested bytes.
	document, err := s.documents.Fetch(ctx, cert.DocumentRef)
	s.Require().NoError(err)
	s.Equal([]byte("PDF-CONTENT-1"), document)

	events, err := s.auditStore.ListByCertificate(ctx, certificateID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionCertificateIssued, events[0].Action)
}

func (s *ServiceSuite) TestIssueValidation() {
	ctx := context.Background()

	s.Run("missing field", func() {
		req := validRequest()
		req.Course = ""
		_, err := s.service.Issue(ctx, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("empty document", func() {
		req := validRequest()
		req.Document = nil
		_, err := s.service.Issue(ctx, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("nothing is stored on validation failure", func() {
		req := validRequest()
		req.StudentName = ""
		_, err := s.service.Issue(ctx, req)
		s.Require().Error(err)

		certs, err := s.records.ListByStudent(ctx, req.StudentID)
		s.Require().NoError(err)
		s.Empty(certs)
	})
}

type failingRecordStore struct {
	certstore.RecordStore
}

func (failingRecordStore) Put(context.Context, models.Certificate) error {
	return errors.New("connection refused")
}

func (s *ServiceSuite) TestIssueStorageFailure() {
	auditor := audit.NewPublisher(s.auditStore, slog.Default())
	service := New(failingRecordStore{}, s.documents, auditor, slog.Default(), testMetrics, time.Second)

	_, err := service.Issue(context.Background(), validRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ServiceSuite) TestRevoke() {
	ctx := requestcontext.WithIssuerID(context.Background(), "registrar@globaltech")

	certificateID, err := s.service.Issue(ctx, validRequest())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Revoke(ctx, certificateID))

	cert, err := s.records.FindByID(ctx, certificateID)
	s.Require().NoError(err)
	s.Equal(models.StatusRevoked, cert.Status)

	events, err := s.auditStore.ListByCertificate(ctx, certificateID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionCertificateRevoked, events[1].Action)
	s.Equal("registrar@globaltech", events[1].Actor)
}

func (s *ServiceSuite) TestRevokeUnknownCertificate() {
	err := s.service.Revoke(context.Background(), "no-such-certificate")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListByStudent() {
	ctx := context.Background()

	first, err := s.service.Issue(ctx, validRequest())
	s.Require().NoError(err)

	other := validRequest()
	other.StudentID = "STU-9999"
	other.Document = []byte("PDF-CONTENT-2")
	_, err = s.service.Issue(ctx, other)
	s.Require().NoError(err)

	certs, err := s.service.ListByStudent(ctx, "STU-1815")
	s.Require().NoError(err)
	s.Require().Len(certs, 1)
	s.Equal(first, certs[0].CertificateID)

	_, err = s.service.ListByStudent(ctx, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}
