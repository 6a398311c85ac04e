package record

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastaRoundTrip(t *testing.T) {
	src := ">s1 description here\nACGTACGTAC\nGTACGT\n>s2\nAAAA\n"
	rdr := NewFastaReader(bytes.NewReader([]byte(src)), 64*1024)

	var got []*Record
	for {
		rec, err := rdr.Next()
		if rec != nil {
			got = append(got, rec)
		}
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "s1", string(got[0].ID))
	assert.Equal(t, "description here", string(got[0].Desc))
	assert.Equal(t, "ACGTACGTACGTACGT", string(got[0].Joined()))
	assert.Equal(t, "s2", string(got[1].ID))
	assert.Equal(t, "AAAA", string(got[1].Joined()))

	var buf bytes.Buffer
	w := NewFastaWriter(&buf, 0)
	for _, rec := range got {
		require.NoError(t, w.Write(rec))
	}
	assert.Equal(t, ">s1 description here\nACGTACGTACGTACGT\n>s2\nAAAA\n", buf.String())
}

func TestFastaWrapWidthOnWrite(t *testing.T) {
	var buf bytes.Buffer
	w := NewFastaWriter(&buf, 4)
	rec := NewWrapped([]byte("x"), nil, []byte("ACGTACGTA"))
	require.NoError(t, w.Write(rec))
	assert.Equal(t, ">x\nACGT\nACGT\nA\n", buf.String())
}

func TestFastaMissingIdentifier(t *testing.T) {
	rdr := NewFastaReader(bytes.NewReader([]byte("ACGT\n")), 1024)
	_, err := rdr.Next()
	require.Error(t, err)
}
