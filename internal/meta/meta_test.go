package meta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndLookupSynchronized(t *testing.T) {
	data := "r1\tsampleA\t37.0\nr2\tsampleB\t22.5\nr3\tsampleC\t19.9\n"
	j, err := Load(strings.NewReader(data), '\t', Options{})
	require.NoError(t, err)

	fields, ok := j.Lookup("r1")
	require.True(t, ok)
	assert.Equal(t, []string{"sampleA", "37.0"}, fields)

	fields, ok = j.Lookup("r2")
	require.True(t, ok)
	assert.Equal(t, []string{"sampleB", "22.5"}, fields)
	assert.Equal(t, "synchronized", j.Mode())
}

func TestLookupMissingID(t *testing.T) {
	data := "r1\tsampleA\n"
	j, err := Load(strings.NewReader(data), '\t', Options{})
	require.NoError(t, err)

	_, ok := j.Lookup("nope")
	assert.False(t, ok)
}

func TestLookupFallsBackToIndexedOnDisagreement(t *testing.T) {
	data := "r1\tsampleA\nr2\tsampleB\nr3\tsampleC\n"
	j, err := Load(strings.NewReader(data), '\t', Options{})
	require.NoError(t, err)

	// Query out of file order: r1 agrees, then r3 jumps ahead of r2 -
	// triggers fallback to the indexed map, which must still answer every
	// query correctly regardless of order from then on.
	_, ok := j.Lookup("r1")
	require.True(t, ok)
	_, ok = j.Lookup("r3")
	require.True(t, ok)
	assert.Equal(t, "indexed", j.Mode())

	fields, ok := j.Lookup("r2")
	require.True(t, ok)
	assert.Equal(t, []string{"sampleB"}, fields)
}

func TestHasHeaderSkipsFirstLine(t *testing.T) {
	data := "id\tsample\nr1\tsampleA\n"
	j, err := Load(strings.NewReader(data), '\t', Options{HasHeader: true})
	require.NoError(t, err)

	fields, ok := j.Lookup("r1")
	require.True(t, ok)
	assert.Equal(t, []string{"sampleA"}, fields)
}

func TestKeyColumnNotFirst(t *testing.T) {
	data := "sampleA\tr1\nsampleB\tr2\n"
	j, err := Load(strings.NewReader(data), '\t', Options{KeyColumn: 1})
	require.NoError(t, err)

	fields, ok := j.Lookup("r1")
	require.True(t, ok)
	assert.Equal(t, []string{"sampleA"}, fields)
}

func TestHasHeaderBuildsColumnIndex(t *testing.T) {
	data := "id\tsample\ttemp\nr1\tsampleA\t37.0\n"
	j, err := Load(strings.NewReader(data), '\t', Options{HasHeader: true})
	require.NoError(t, err)

	idx, ok := j.ColumnIndex("sample")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = j.ColumnIndex("temp")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = j.ColumnIndex("nope")
	assert.False(t, ok)
}

func TestDuplicateIDIsFatalUnlessAllowed(t *testing.T) {
	data := "r1\tsampleA\nr1\tsampleB\n"

	_, err := Load(strings.NewReader(data), '\t', Options{})
	require.Error(t, err)

	j, err := Load(strings.NewReader(data), '\t', Options{AllowDupIDs: true})
	require.NoError(t, err)
	fields, ok := j.Lookup("r1")
	require.True(t, ok)
	assert.NotEmpty(t, fields)
}
