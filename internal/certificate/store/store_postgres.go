package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"certivault/internal/certificate/models"
	"certivault/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// PostgresRecordStore persists certificate records in PostgreSQL. The single
// INSERT in Put keeps issuance atomic from the reader's perspective: either
// the full record is visible or nothing is.
type PostgresRecordStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

// Schema returns the DDL for the certificates table. Applied by migrations
// in deployment; integration tests apply it directly.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS certificates (
	certificate_id  TEXT PRIMARY KEY,
	student_name    TEXT NOT NULL,
	student_id      TEXT NOT NULL,
	course          TEXT NOT NULL,
	issue_date      TEXT NOT NULL,
	issuer_name     TEXT NOT NULL,
	document_ref    TEXT NOT NULL,
	official_digest TEXT NOT NULL,
	status          TEXT NOT NULL,
	issued_at       TIMESTAMPTZ NOT NULL,
	revoked_at      TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS certificates_student_id_idx ON certificates (student_id);
`
}

func (s *PostgresRecordStore) Put(ctx context.Context, cert models.Certificate) error {
	query := `
		INSERT INTO certificates (
			certificate_id, student_name, student_id, course, issue_date,
			issuer_name, document_ref, official_digest, status, issued_at, revoked_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		cert.CertificateID,
		cert.StudentName,
		cert.StudentID,
		cert.Course,
		cert.IssueDate,
		cert.IssuerName,
		cert.DocumentRef,
		cert.OfficialDigest,
		string(cert.Status),
		cert.IssuedAt,
		cert.RevokedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("certificate %s already issued: %w", cert.CertificateID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

func (s *PostgresRecordStore) FindByID(ctx context.Context, certificateID string) (models.Certificate, error) {
	query := `
		SELECT certificate_id, student_name, student_id, course, issue_date,
		       issuer_name, document_ref, official_digest, status, issued_at, revoked_at
		FROM certificates
		WHERE certificate_id = $1
	`
	cert, err := scanCertificate(s.db.QueryRowContext(ctx, query, certificateID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Certificate{}, fmt.Errorf("certificate %s: %w", certificateID, sentinel.ErrNotFound)
		}
		return models.Certificate{}, fmt.Errorf("find certificate by id: %w", err)
	}
	return cert, nil
}

func (s *PostgresRecordStore) ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	query := `
		SELECT certificate_id, student_name, student_id, course, issue_date,
		       issuer_name, document_ref, official_digest, status, issued_at, revoked_at
		FROM certificates
		WHERE student_id = $1
		ORDER BY issued_at
	`
	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list certificates by student: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate row: %w", err)
		}
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificate rows: %w", err)
	}
	return certs, nil
}

func (s *PostgresRecordStore) SetStatus(ctx context.Context, certificateID string, status models.Status, at time.Time) error {
	// The WHERE clause enforces the one-way transition at the database:
	// a record that already left Active is never moved back.
	query := `
		UPDATE certificates
		SET status = $2,
		    revoked_at = COALESCE(revoked_at, $3)
		WHERE certificate_id = $1
		  AND (status = $2 OR status = 'Active')
	`
	result, err := s.db.ExecContext(ctx, query, certificateID, string(status), at)
	if err != nil {
		return fmt.Errorf("update certificate status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update certificate status: %w", err)
	}
	if affected == 0 {
		if _, findErr := s.FindByID(ctx, certificateID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("certificate %s status is final: %w", certificateID, sentinel.ErrInvalidState)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row rowScanner) (models.Certificate, error) {
	var cert models.Certificate
	var status string
	var revokedAt sql.NullTime
	err := row.Scan(
		&cert.CertificateID,
		&cert.StudentName,
		&cert.StudentID,
		&cert.Course,
		&cert.IssueDate,
		&cert.IssuerName,
		&cert.DocumentRef,
		&cert.OfficialDigest,
		&status,
		&cert.IssuedAt,
		&revokedAt,
	)
	if err != nil {
		return models.Certificate{}, err
	}
	cert.Status = models.Status(status)
	if revokedAt.Valid {
		cert.RevokedAt = &revokedAt.Time
	}
	return cert, nil
}
