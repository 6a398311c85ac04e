package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/seqtool/internal/iupac"
)

func TestExactSearchFindsAllOccurrences(t *testing.T) {
	p, err := Compile("ACGT", iupac.DNA, 0, 2, AlgoAuto)
	require.NoError(t, err)
	assert.Equal(t, AlgoExact, p.Algo)

	matches := Search([]*Pattern{p}, []byte("ACGTxxACGTxxx"), Options{MaxShiftEnd: -1, MaxShiftStart: -1})
	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].Start)
	assert.Equal(t, 4, matches[0].End)
	assert.Equal(t, 7, matches[1].Start)
	assert.Equal(t, 10, matches[1].End)
}

func TestMyersExactMatchZeroDiffs(t *testing.T) {
	p, err := Compile("ACGT", iupac.DNA, 1, 2, AlgoMyers)
	require.NoError(t, err)

	matches := Search([]*Pattern{p}, []byte("TTACGTTT"), Options{MaxShiftStart: -1, MaxShiftEnd: -1})
	require.NotEmpty(t, matches)
	best := matches[0]
	assert.Equal(t, 0, best.Diffs)
	assert.Equal(t, 3, best.Start)
	assert.Equal(t, 6, best.End)
}

func TestMyersFindsSubstitution(t *testing.T) {
	p, err := Compile("ACGT", iupac.DNA, 1, 2, AlgoMyers)
	require.NoError(t, err)

	// ACTT has one substitution (G->T) relative to ACGT.
	matches := Search([]*Pattern{p}, []byte("TTACTTTT"), Options{MaxShiftStart: -1, MaxShiftEnd: -1})
	require.NotEmpty(t, matches)
	assert.Equal(t, 1, matches[0].Diffs)
}

func TestIUPACAsymmetryExhaustive(t *testing.T) {
	// Every DNA ambiguity code in the pattern must match every concrete
	// base it denotes, and must not match bases outside its expansion.
	codes := []byte{'R', 'Y', 'S', 'W', 'K', 'M', 'B', 'D', 'H', 'V', 'N'}
	bases := []byte{'A', 'C', 'G', 'T'}
	for _, code := range codes {
		expansion := iupac.Expand(iupac.DNA, code)
		for _, b := range bases {
			expect := false
			for i := 0; i < len(expansion); i++ {
				if expansion[i] == b {
					expect = true
				}
			}
			got := iupac.MatchPatternToSeq(iupac.DNA, code, b)
			assert.Equal(t, expect, got, "pattern=%c seq=%c", code, b)
		}
	}

	// Ambiguity in the sequence only matches a pattern ambiguity covering
	// its full expansion: N in the sequence must not match a concrete A in
	// the pattern (expand(N) is not a subset of expand(A)).
	assert.False(t, iupac.MatchPatternToSeq(iupac.DNA, 'A', 'N'))
	assert.True(t, iupac.MatchPatternToSeq(iupac.DNA, 'N', 'N'))
}

func TestAnchoringRejectsShiftedHits(t *testing.T) {
	p, err := Compile("ACGT", iupac.DNA, 0, 2, AlgoAuto)
	require.NoError(t, err)

	target := []byte("xxxxxxxxxxACGT")
	unanchored := Search([]*Pattern{p}, target, Options{MaxShiftStart: -1, MaxShiftEnd: -1})
	require.Len(t, unanchored, 1)

	anchored := Search([]*Pattern{p}, target, Options{MaxShiftStart: 2, MaxShiftEnd: -1})
	assert.Empty(t, anchored)
}

func TestRankOrdersByDistanceThenStart(t *testing.T) {
	matches := []Match{
		{Start: 5, Diffs: 1},
		{Start: 1, Diffs: 0},
		{Start: 2, Diffs: 0},
	}
	rank(matches, false)
	assert.Equal(t, 1, matches[0].Start)
	assert.Equal(t, 2, matches[1].Start)
	assert.Equal(t, 5, matches[2].Start)
	assert.Equal(t, 1, matches[0].HitRank)
}

func TestPatternLongerThanWordSizeUsesBlockFallback(t *testing.T) {
	long := ""
	for i := 0; i < 80; i++ {
		long += "A"
	}
	p, err := Compile(long, iupac.DNA, 0, 2, AlgoMyers)
	require.NoError(t, err)
	assert.NotNil(t, p.blockEq)

	target := []byte(long)
	matches := Search([]*Pattern{p}, target, Options{MaxShiftStart: -1, MaxShiftEnd: -1})
	require.NotEmpty(t, matches)
	assert.Equal(t, 0, matches[0].Diffs)
}
