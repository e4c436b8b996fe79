// Package store holds DocumentStore implementations for certificate
// documents. Storage is content-addressed: the reference is the hex SHA-256
// of the stored bytes, so a reference can only ever resolve to the bytes it
// was minted for.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// DocumentStore is the persistence boundary for certificate documents.
type DocumentStore interface {
	Store(ctx context.Context, document []byte) (string, error)
	Fetch(ctx context.Context, documentRef string) ([]byte, error)
}

// Ref derives the content-addressed reference for a document.
func Ref(document []byte) string {
	sum := sha256.Sum256(document)
	return hex.EncodeToString(sum[:])
}
