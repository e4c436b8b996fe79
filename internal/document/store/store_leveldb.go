package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"certivault/pkg/platform/sentinel"
)

const documentKeyPrefix = "doc:"

// LevelDBDocumentStore persists documents in an embedded LevelDB database.
// Suitable for single-node deployments; swap in an object store behind the
// same interface for anything distributed.
type LevelDBDocumentStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) the document database at path.
func OpenLevelDB(path string) (*LevelDBDocumentStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open document db: %w", err)
	}
	return &LevelDBDocumentStore{db: db}, nil
}

func (s *LevelDBDocumentStore) Store(ctx context.Context, document []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(document) == 0 {
		return "", fmt.Errorf("empty document: %w", sentinel.ErrInvalidState)
	}
	ref := Ref(document)
	key := []byte(documentKeyPrefix + ref)
	has, err := s.db.Has(key, nil)
	if err != nil {
		return "", fmt.Errorf("probe document: %w", err)
	}
	if !has {
		if err := s.db.Put(key, document, nil); err != nil {
			return "", fmt.Errorf("store document: %w", err)
		}
	}
	return ref, nil
}

func (s *LevelDBDocumentStore) Fetch(ctx context.Context, documentRef string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	document, err := s.db.Get([]byte(documentKeyPrefix+documentRef), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("document %s: %w", documentRef, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return document, nil
}

// Close releases the underlying database.
func (s *LevelDBDocumentStore) Close() error {
	return s.db.Close()
}
