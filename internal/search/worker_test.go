package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/seqtool/internal/iupac"
)

func TestPoolPreservesInputOrderUnderReorder(t *testing.T) {
	p, err := Compile("ACGT", iupac.DNA, 0, 2, AlgoAuto)
	require.NoError(t, err)

	targets := [][]byte{
		[]byte("ACGTxxxxxx"),
		[]byte("xxACGTxxxx"),
		[]byte("xxxxACGTxx"),
		[]byte("xxxxxxACGT"),
	}

	pool := NewPool(3, []*Pattern{p}, Options{MaxShiftStart: -1, MaxShiftEnd: -1})
	for i, tgt := range targets {
		pool.Submit(Job{Seq: int64(i), Target: tgt})
	}
	pool.Close()

	var seen []int64
	Reorder(pool, len(targets), func(r Result) {
		seen = append(seen, r.Seq)
		require.Len(t, r.Matches, 1)
	})

	assert.Equal(t, []int64{0, 1, 2, 3}, seen)
}
