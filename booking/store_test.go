package booking

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_MemoryStore(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	_, ok, err := s.Get(1)
	require.NoError(t, err)
	require.False(t, ok)

	start := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Put(1, start))

	got, ok, err := s.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, start, got)

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, s.Delete(1))
	require.NoError(t, s.Delete(1))

	_, ok, err = s.Get(1)
	require.NoError(t, err)
	require.False(t, ok)
}

func Test_FileStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "countdowns.json")
	start := time.Now().UTC().Truncate(time.Second)

	s := NewFileStore(path)
	require.NoError(t, s.Put(42, start))

	// A second store over the same file sees the record, the way a relaunched
	// process resumes its countdowns.
	reopened := NewFileStore(path)
	got, ok, err := reopened.Get(42)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, start.Equal(got))

	require.NoError(t, reopened.Delete(42))

	_, ok, err = s.Get(42)
	require.NoError(t, err)
	require.False(t, ok)
}

func Test_FileStore_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "countdowns.json"))

	all, err := s.All()
	require.NoError(t, err)
	require.Empty(t, all)

	require.NoError(t, s.Delete(1))
}
