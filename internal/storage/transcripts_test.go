package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndReadBack(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "transcripts.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record("s1", "user", "Vorrei un espresso"))
	require.NoError(t, store.Record("s1", "assistant", "Subito!"))
	require.NoError(t, store.Record("s2", "user", "ciao"))

	turns, err := store.Session("s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "Vorrei un espresso", turns[0].Text)
	assert.Equal(t, "assistant", turns[1].Role)

	empty, err := store.Session("unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNilStoreIsInert(t *testing.T) {
	var store *TranscriptStore

	assert.NoError(t, store.Record("s1", "user", "hello"))
	turns, err := store.Session("s1")
	assert.NoError(t, err)
	assert.Nil(t, turns)
	assert.NoError(t, store.Close())
}
