package record

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastqRoundTrip(t *testing.T) {
	src := "@r1\nACGT\n+\n!!!!\n"
	rdr := NewFastqReader(bytes.NewReader([]byte(src)), 64*1024, Sanger)
	rec, err := rdr.Next()
	require.NoError(t, err)
	assert.Equal(t, "r1", string(rec.ID))
	assert.Equal(t, "ACGT", string(rec.Seq))
	assert.Equal(t, []byte("!!!!"), rec.Qual)

	_, err = rdr.Next()
	assert.ErrorIs(t, err, io.EOF)

	var buf bytes.Buffer
	w := NewFastqWriter(&buf, Sanger)
	require.NoError(t, w.Write(rec))
	assert.Equal(t, src, buf.String())
}

func TestFastqLengthMismatch(t *testing.T) {
	src := "@r1\nACGT\n+\n!!!\n"
	rdr := NewFastqReader(bytes.NewReader([]byte(src)), 64*1024, Sanger)
	_, err := rdr.Next()
	require.Error(t, err)
}

func TestFastqToFastaConversion(t *testing.T) {
	// A pass over a FASTQ record with --to fasta emits the bare FASTA
	// rendering.
	src := "@r1\nACGT\n+\n!!!!\n"
	rdr := NewFastqReader(bytes.NewReader([]byte(src)), 64*1024, Sanger)
	rec, err := rdr.Next()
	require.NoError(t, err)

	var buf bytes.Buffer
	fw := NewFastaWriter(&buf, 0)
	require.NoError(t, fw.Write(rec))
	assert.Equal(t, ">r1\nACGT\n", buf.String())
}

func TestIllumina13Conversion(t *testing.T) {
	enc := Illumina13
	// Illumina 1.3 'h' (0x68=104) -> Phred Q = 104-64 = 40 -> Sanger 'I' (73)
	assert.Equal(t, byte('I'), enc.ToPhred('h'))
	assert.Equal(t, byte('h'), enc.FromPhred('I'))
}
