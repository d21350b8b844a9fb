// pkg/jsonstore/jsonstore_test.go
package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	in := []record{{Name: "a", Count: 1}, {Name: "b", Count: 2}}
	require.NoError(t, store.Save(ctx, "records", in))

	var out []record
	require.NoError(t, store.Load(ctx, "records", &out))
	assert.Equal(t, in, out)
}

func TestLoadMissingFileLeavesValueUntouched(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	out := []record{{Name: "seed"}}
	require.NoError(t, store.Load(context.Background(), "absent", &out))
	assert.Equal(t, []record{{Name: "seed"}}, out)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "records", []record{{Name: "old"}}))
	require.NoError(t, store.Save(ctx, "records", []record{{Name: "new"}}))

	var out []record
	require.NoError(t, store.Load(ctx, "records", &out))
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "records.json", filepath.Base(entries[0].Name()))
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
