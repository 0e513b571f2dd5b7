package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"), 64, []string{".pdf", ".docx"})
	require.NoError(t, err)
	return store
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "resume.pdf", strings.NewReader("resume body"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotContains(t, key, "resume")

	f, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "resume body", string(body))
}

func TestSaveGeneratesDistinctKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, "resume.pdf", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "resume.pdf", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), "malware.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)

	_, err = store.Save(context.Background(), "noextension", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)
}

func TestSaveAcceptsUppercaseExtension(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Save(context.Background(), "RESUME.PDF", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"))
}

func TestSaveEnforcesSizeCap(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), "big.pdf", strings.NewReader(strings.Repeat("a", 65)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// Exactly at the cap is fine.
	_, err = store.Save(context.Background(), "fits.pdf", strings.NewReader(strings.Repeat("a", 64)))
	assert.NoError(t, err)
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open(context.Background(), "../outside.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "resume.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, key))
	assert.ErrorIs(t, store.Remove(ctx, key), ErrNotFound)

	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}
