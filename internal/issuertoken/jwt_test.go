package issuertoken

import (
	"testing"
	"time"

	dErrors "certivault/pkg/domain-errors"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-signing-key")

	token, err := svc.GenerateToken("registrar@globaltech", time.Hour)
	require.NoError(t, err)

	issuerID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "registrar@globaltech", issuerID)
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService("test-signing-key")

	token, err := svc.GenerateToken("registrar@globaltech", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestWrongKeyRejected(t *testing.T) {
	minter := NewJWTService("key-one")
	validator := NewJWTService("key-two")

	token, err := minter.GenerateToken("registrar@globaltech", time.Hour)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	require.Error(t, err)
}

func TestGarbageRejected(t *testing.T) {
	svc := NewJWTService("test-signing-key")
	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
}
