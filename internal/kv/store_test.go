package kv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relabs-tech/ratonaut/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "store.json")
	s := kv.NewFileStore(path)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "two"))
	require.NoError(t, s.Set("a", "3"))

	reopened := kv.NewFileStore(path)
	v, ok, err := reopened.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "3", v)

	v, ok, err = reopened.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))

	_, _, err := kv.NewFileStore(path).Get("x")
	require.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s := kv.NewMemoryStore()
	require.NoError(t, s.Set("k", "v"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
