package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadList(t *testing.T) {
	store, err := NewLocalStorage(filepath.Join(t.TempDir(), "exports"))
	require.NoError(t, err)

	name, err := store.Save("run/rank-1.csv", []byte("Time,Monday\n"))
	require.NoError(t, err)
	assert.Equal(t, "run/rank-1.csv", name)

	data, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, "Time,Monday\n", string(data))

	_, err = store.Save("run/choices.csv", []byte("course,codes\n"))
	require.NoError(t, err)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("run", "choices.csv"), filepath.Join("run", "rank-1.csv")}, names)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../outside.csv", []byte("x"))
	assert.Error(t, err)
	_, err = store.Save("/etc/outside.csv", []byte("x"))
	assert.Error(t, err)
	assert.Empty(t, store.Path("../x"))
}

func TestLocalStorageCleanup(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("old.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("new.pdf", []byte("new"))
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path("old.pdf"), past, past))

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, deleted)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"new.pdf"}, names)
}
