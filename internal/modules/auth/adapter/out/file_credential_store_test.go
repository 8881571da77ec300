package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authout "smartlib/internal/modules/auth/adapter/out"
)

func TestFileCredentialStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := authout.NewFileCredentialStore(path)
	ctx := context.Background()

	token, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)

	require.NoError(t, store.Set(ctx, "jwt-value"))
	token, ok, err = store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt-value", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"smartlib_token":"jwt-value"}`, string(raw))
}

func TestFileCredentialStoreClearIsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := authout.NewFileCredentialStore(path)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Set(ctx, "a"))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCredentialStoreRejectsCorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, _, err := authout.NewFileCredentialStore(path).Get(context.Background())
	assert.Error(t, err)
}
