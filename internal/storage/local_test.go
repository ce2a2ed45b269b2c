package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewLocal(LocalConfig{BasePath: t.TempDir(), BaseURL: "http://localhost:8080/files"}, logger)
	require.NoError(t, err)
	return store
}

func TestLocalPutGetRoundTrip(t *testing.T) {
	store := newTestLocal(t)
	ctx := context.Background()
	key := ExportKey(uuid.New(), "pdf")

	err := store.Put(ctx, key, strings.NewReader("%PDF-1.7 fake"), PutOptions{})
	require.NoError(t, err)

	reader, info, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(body))
	assert.Equal(t, key, info.Key)
	assert.True(t, IsPDF(info.ContentType))
}

func TestLocalPutRefusesOverwriteByDefault(t *testing.T) {
	store := newTestLocal(t)
	ctx := context.Background()
	key := "quotes/a/exports/doc.pdf"

	require.NoError(t, store.Put(ctx, key, strings.NewReader("one"), PutOptions{}))

	err := store.Put(ctx, key, strings.NewReader("two"), PutOptions{})
	assert.ErrorIs(t, err, ErrKeyExists)

	err = store.Put(ctx, key, strings.NewReader("two"), PutOptions{Overwrite: true})
	assert.NoError(t, err)
}

func TestLocalPutEnforcesMaxSize(t *testing.T) {
	store := newTestLocal(t)
	ctx := context.Background()

	err := store.Put(ctx, "big.pdf", strings.NewReader("0123456789"), PutOptions{MaxSize: 5})
	require.ErrorIs(t, err, ErrTooLarge)

	exists, err := store.Exists(ctx, "big.pdf")
	require.NoError(t, err)
	assert.False(t, exists, "an oversized upload leaves nothing behind")
}

func TestLocalRejectsTraversalKeys(t *testing.T) {
	store := newTestLocal(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape.pdf", "a/../../b.pdf"} {
		err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{})
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestLocalGetMissingKey(t *testing.T) {
	store := newTestLocal(t)

	_, _, err := store.Get(context.Background(), "quotes/none/exports/none.pdf")
	assert.True(t, IsNotFound(err))
}

func TestLocalDeleteIsIdempotent(t *testing.T) {
	store := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "doc.pdf", strings.NewReader("x"), PutOptions{}))
	assert.NoError(t, store.Delete(ctx, "doc.pdf"))
	assert.NoError(t, store.Delete(ctx, "doc.pdf"))
}

func TestExportKeyFormat(t *testing.T) {
	quoteID := uuid.New()
	key := ExportKey(quoteID, "pdf")

	assert.True(t, strings.HasPrefix(key, "quotes/"+quoteID.String()+"/exports/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
}

func TestLocalURL(t *testing.T) {
	store := newTestLocal(t)

	url, err := store.URL(context.Background(), "quotes/a/exports/doc.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/quotes/a/exports/doc.pdf", url)
}
