package sequtil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "ACGT", string(ReverseComplement([]byte("ACGT"))))
	assert.Equal(t, "N", string(ReverseComplement([]byte("N"))))
	// R (A|G) complements to Y (C|T)
	assert.Equal(t, "Y", string(ReverseComplement([]byte("R"))))
	assert.Equal(t, "acgt", string(ReverseComplement([]byte("acgt"))))
}

func TestGCPercentExcludesLowercaseAndN(t *testing.T) {
	assert.InDelta(t, 50.0, GCPercent([]byte("ACGT")), 1e-9)
	assert.InDelta(t, 50.0, GCPercent([]byte("ACGTacgtNNNN")), 1e-9)
	assert.Equal(t, 0.0, GCPercent([]byte("nnnn")))
}

func TestSeqHashMinStrandAgnostic(t *testing.T) {
	seq := []byte("ACGTACGTGGTT")
	rc := ReverseComplement(seq)
	assert.Equal(t, SeqHashMin(seq), SeqHashMin(rc))
}

func TestExpectedError(t *testing.T) {
	// Q=10 -> p=0.1; four such bases sum to 0.4
	qual := []byte{43, 43, 43, 43} // Sanger Q=10
	assert.InDelta(t, 0.4, ExpectedError(qual), 1e-9)
}
