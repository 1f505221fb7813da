package keychain

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"usydrc/lib/testutil"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store CredentialStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := store.Get(ctx, UniPassword)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, UniPassword, "anarchosyndicalism"))
	require.NoError(t, store.Set(ctx, EmailPassword, "hunter2"))

	value, err := store.Get(ctx, UniPassword)
	require.NoError(t, err)
	require.Equal(t, "anarchosyndicalism", value)

	require.NoError(t, store.Set(ctx, UniPassword, "changed"))
	value, err = store.Get(ctx, UniPassword)
	require.NoError(t, err)
	require.Equal(t, "changed", value)

	value, err = store.Get(ctx, EmailPassword)
	require.NoError(t, err)
	require.Equal(t, "hunter2", value)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json")
	testStore(t, NewFileStore(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// a second store over the same file sees the same secrets
	value, err := NewFileStore(path).Get(context.Background(), EmailPassword)
	require.NoError(t, err)
	require.Equal(t, "hunter2", value)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path).Get(context.Background(), UniPassword)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestSqliteStore(t *testing.T) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/keychain",
		DbSchema: Schema,
	})
	defer cleanup()

	store, err := NewSqliteStore(context.Background(), res.DB)
	require.NoError(t, err)
	testStore(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, closeStore, err := Open(ctx, Config{Backend: BackendSqlite, File: filepath.Join(dir, "keychain.db")})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, UniPassword, "pw"))
	closeStore()

	store, closeStore, err = Open(ctx, Config{Backend: BackendSqlite, File: filepath.Join(dir, "keychain.db")})
	require.NoError(t, err)
	defer closeStore()
	value, err := store.Get(ctx, UniPassword)
	require.NoError(t, err)
	require.Equal(t, "pw", value)

	store, _, err = Open(ctx, Config{File: filepath.Join(dir, "secrets.json")})
	require.NoError(t, err)
	require.IsType(t, FileStore{}, store)

	_, _, err = Open(ctx, Config{Backend: "keyring"})
	require.Error(t, err)
	_, _, err = Open(ctx, Config{Backend: BackendFile})
	require.Error(t, err)
}
