//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"certivault/internal/certificate/models"
	"certivault/pkg/platform/sentinel"
	"certivault/pkg/testutil/containers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPostgresRecordStore(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgresContainer(t)

	_, err := pg.DB.ExecContext(ctx, Schema())
	require.NoError(t, err)

	store := NewPostgres(pg.DB)

	cert := models.Certificate{
		CertificateID:  uuid.NewString(),
		StudentName:    "Ada Lovelace",
		StudentID:      "STU-1815",
		Course:         "Blockchain Fundamentals",
		IssueDate:      "2023-11-01",
		IssuerName:     "Global Tech Institute",
		DocumentRef:    "doc-ref-1",
		OfficialDigest: "aa11",
		Status:         models.StatusActive,
		IssuedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}

	t.Run("put and find", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, cert))

		found, err := store.FindByID(ctx, cert.CertificateID)
		require.NoError(t, err)
		require.Equal(t, cert.CertificateID, found.CertificateID)
		require.Equal(t, cert.OfficialDigest, found.OfficialDigest)
		require.Equal(t, models.StatusActive, found.Status)
		require.True(t, cert.IssuedAt.Equal(found.IssuedAt))
		require.Nil(t, found.RevokedAt)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		err := store.Put(ctx, cert)
		require.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.FindByID(ctx, "no-such-certificate")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list by student", func(t *testing.T) {
		certs, err := store.ListByStudent(ctx, "STU-1815")
		require.NoError(t, err)
		require.Len(t, certs, 1)

		certs, err = store.ListByStudent(ctx, "STU-9999")
		require.NoError(t, err)
		require.Empty(t, certs)
	})

	t.Run("revocation is one-way", func(t *testing.T) {
		revokedAt := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, store.SetStatus(ctx, cert.CertificateID, models.StatusRevoked, revokedAt))

		found, err := store.FindByID(ctx, cert.CertificateID)
		require.NoError(t, err)
		require.Equal(t, models.StatusRevoked, found.Status)
		require.NotNil(t, found.RevokedAt)

		// Idempotent re-revoke keeps the original timestamp.
		require.NoError(t, store.SetStatus(ctx, cert.CertificateID, models.StatusRevoked, revokedAt.Add(time.Hour)))
		found, err = store.FindByID(ctx, cert.CertificateID)
		require.NoError(t, err)
		require.True(t, found.RevokedAt.Equal(revokedAt))

		// Moving back to Active is rejected.
		err = store.SetStatus(ctx, cert.CertificateID, models.StatusActive, time.Now())
		require.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("set status on unknown id", func(t *testing.T) {
		err := store.SetStatus(ctx, "no-such-certificate", models.StatusRevoked, time.Now())
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
