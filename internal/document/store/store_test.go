package store

import (
	"context"
	"testing"

	"certivault/pkg/platform/sentinel"

	"github.com/stretchr/testify/require"
)

func TestContentAddressing(t *testing.T) {
	ctx := context.Background()

	stores := map[string]DocumentStore{
		"memory": NewInMemory(),
	}
	leveldbStore, err := OpenLevelDB(t.TempDir() + "/docs")
	require.NoError(t, err)
	t.Cleanup(func() { _ = leveldbStore.Close() })
	stores["leveldb"] = leveldbStore

	for name, docs := range stores {
		t.Run(name, func(t *testing.T) {
			content := []byte("PDF-CONTENT-1")

			ref, err := docs.Store(ctx, content)
			require.NoError(t, err)
			require.Equal(t, Ref(content), ref, "ref must be derived from content")

			fetched, err := docs.Fetch(ctx, ref)
			require.NoError(t, err)
			require.Equal(t, content, fetched)

			// Storing the same bytes again yields the same ref.
			again, err := docs.Store(ctx, content)
			require.NoError(t, err)
			require.Equal(t, ref, again)

			// Different bytes get a different ref.
			otherRef, err := docs.Store(ctx, []byte("PDF-CONTENT-2"))
			require.NoError(t, err)
			require.NotEqual(t, ref, otherRef)

			_, err = docs.Fetch(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
			require.ErrorIs(t, err, sentinel.ErrNotFound)

			_, err = docs.Store(ctx, nil)
			require.Error(t, err, "empty documents are never stored")
		})
	}
}

func TestFetchedBytesAreCopies(t *testing.T) {
	ctx := context.Background()
	docs := NewInMemory()

	content := []byte("PDF-CONTENT-1")
	ref, err := docs.Store(ctx, content)
	require.NoError(t, err)

	fetched, err := docs.Fetch(ctx, ref)
	require.NoError(t, err)
	fetched[0] = 'X'

	pristine, err := docs.Fetch(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, content, pristine, "mutating a fetched copy must not touch the store")
}
