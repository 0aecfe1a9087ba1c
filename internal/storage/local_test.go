package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "files_manager")
	store, err := NewLocal(root)
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("Hello Webstack!\n")

	require.NoError(t, store.Write(ctx, "content-id", data))

	got, err := store.Read(ctx, "content-id")
	assert.NoError(t, err)
	assert.Equal(t, data, got)

	ok, err := store.Exists(ctx, "content-id")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalStore_MissingKey(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	ok, err := store.Exists(ctx, "never-written")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Read(ctx, "never-written")
	assert.Error(t, err)
}

func TestLocalStore_VariantKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "img", []byte("full")))

	// Variant not generated yet: base exists, variant does not.
	ok, err := store.Exists(ctx, VariantKey("img", "500"))
	assert.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write(ctx, VariantKey("img", "500"), []byte("small")))
	got, err := store.Read(ctx, VariantKey("img", "500"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("small"), got)
}

func TestLocalStore_Ping(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root)
	require.NoError(t, err)

	assert.True(t, store.Ping(context.Background()))
}

func TestNewLocal_EmptyRoot(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)
}

func TestVariantKey(t *testing.T) {
	assert.Equal(t, "abc_250", VariantKey("abc", "250"))
}
