package sqlitestore

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", FileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReadMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Read("tasks")
	require.ErrorIs(t, err, store.ErrNoSnapshot)
}

func TestUpsert(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Write("tasks", []byte(`[1]`)))
	require.NoError(t, s.Write("tasks", []byte(`[1,2]`)))
	require.NoError(t, s.Write("other", []byte(`[]`)))

	got, err := s.Read("tasks")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Write("tasks", []byte(`["kept"]`)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
	got, err := s.Read("tasks")
	require.NoError(t, err)
	assert.Equal(t, `["kept"]`, string(got))
}

func TestStoreRoundTrip(t *testing.T) {
	slot := openTemp(t)
	s := store.New(slot)
	s.Load()
	for _, text := range []string{"one", "two", "three"} {
		_, err := s.Create(text)
		require.NoError(t, err)
	}
	first := s.Items(model.All)[0]
	_, err := s.Toggle(first.ID)
	require.NoError(t, err)

	again := store.New(slot)
	again.Load()
	if diff := cmp.Diff(s.Items(model.All), again.Items(model.All)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
