package extsort

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) Key { return Key{{Text: s}} }

func TestSortInMemoryProducesNonDecreasingOrder(t *testing.T) {
	guard := NewTempGuard(t.TempDir(), 0)
	defer guard.Close()

	s := NewSorter(0, false, guard)
	inputs := []string{"bravo", "alpha", "delta", "charlie"}
	for _, in := range inputs {
		require.NoError(t, s.Add(Entry{Key: key(in), RecordBytes: []byte(in)}))
	}
	assert.False(t, s.Spilled())

	merger, err := s.Finish()
	require.NoError(t, err)

	var got []string
	for {
		_, rec, ok, err := merger.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, string(rec))
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, got)
}

func TestSortSpillsAndMergesPreservingOrder(t *testing.T) {
	guard := NewTempGuard(t.TempDir(), 0)
	defer guard.Close()

	// A tiny budget forces a spill after just a couple of entries.
	s := NewSorter(80, false, guard)
	inputs := []string{"mango", "apple", "fig", "banana", "cherry", "date", "elderberry"}
	for _, in := range inputs {
		require.NoError(t, s.Add(Entry{Key: key(in), RecordBytes: []byte(in)}))
	}
	assert.True(t, s.Spilled())

	merger, err := s.Finish()
	require.NoError(t, err)
	var got []string
	for {
		_, rec, ok, err := merger.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, string(rec))
	}
	want := append([]string(nil), inputs...)
	sortStrings(want)
	assert.Equal(t, want, got)
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func TestUniqueInMemoryPreservesFirstOccurrenceOrder(t *testing.T) {
	guard := NewTempGuard(t.TempDir(), 0)
	defer guard.Close()

	u := NewUniquer(0, false, true, false, guard)
	require.NoError(t, u.Add(key("r1"), []byte("rec1"), "id1"))
	require.NoError(t, u.Add(key("r2"), []byte("rec2"), "id2"))
	require.NoError(t, u.Add(key("r1"), []byte("rec1dup"), "id3"))

	var results []UniqueResult
	require.NoError(t, u.Finish(func(r UniqueResult) error {
		results = append(results, r)
		return nil
	}))

	require.Len(t, results, 2)
	assert.Equal(t, "r1", results[0].Key.String())
	assert.Equal(t, 2, results[0].Count)
	assert.Equal(t, []string{"id1", "id3"}, results[0].IDs)
	assert.Equal(t, "r2", results[1].Key.String())
	assert.Equal(t, 1, results[1].Count)
}

func TestUniqueSpillFallbackCollapsesDuplicateKeys(t *testing.T) {
	guard := NewTempGuard(t.TempDir(), 0)
	defer guard.Close()

	u := NewUniquer(64, false, true, false, guard)
	require.NoError(t, u.Add(key("zeta"), []byte("z1"), "id1"))
	require.NoError(t, u.Add(key("alpha"), []byte("a1"), "id2"))
	require.NoError(t, u.Add(key("alpha"), []byte("a2"), "id3"))
	require.NoError(t, u.Add(key("beta"), []byte("b1"), "id4"))

	var results []UniqueResult
	require.NoError(t, u.Finish(func(r UniqueResult) error {
		results = append(results, r)
		return nil
	}))

	total := 0
	for _, r := range results {
		total += r.Count
	}
	assert.Equal(t, 4, total)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Key.String(), results[i].Key.String())
	}
}

func TestTempGuardEnforcesFileLimit(t *testing.T) {
	guard := NewTempGuard(t.TempDir(), 1)
	defer guard.Close()

	_, err := guard.NewFile()
	require.NoError(t, err)
	_, err = guard.NewFile()
	assert.Error(t, err)
}

func TestTempGuardCleansUpFiles(t *testing.T) {
	dir := t.TempDir()
	guard := NewTempGuard(dir, 0)
	path, err := guard.NewFile()
	require.NoError(t, err)
	require.NoError(t, writeBatch(mustCreate(t, path), nil))
	guard.Close()

	_, err = openSpillReader(path)
	assert.Error(t, err)
}

func mustCreate(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	return f
}
