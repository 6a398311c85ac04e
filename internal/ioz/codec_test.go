package ioz

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffCodec(t *testing.T) {
	c, rest := SniffCodec("reads.fastq.gz")
	assert.Equal(t, Gzip, c)
	assert.Equal(t, "reads.fastq", rest)

	c, rest = SniffCodec("reads.fasta")
	assert.Equal(t, None, c)
	assert.Equal(t, "reads.fasta", rest)

	c, _ = SniffCodec("a.tsv.zst")
	assert.Equal(t, Zstd, c)

	c, _ = SniffCodec("a.tsv.bz2")
	assert.Equal(t, Bzip2, c)

	c, _ = SniffCodec("a.tsv.lz4")
	assert.Equal(t, LZ4, c)
}

func TestGzipRoundTrip(t *testing.T) {
	roundTripCodec(t, Gzip, ".gz")
}

func TestZstdRoundTrip(t *testing.T) {
	roundTripCodec(t, Zstd, ".zst")
}

func TestLZ4RoundTrip(t *testing.T) {
	roundTripCodec(t, LZ4, ".lz4")
}

func TestBzip2RoundTrip(t *testing.T) {
	roundTripCodec(t, Bzip2, ".bz2")
}

func roundTripCodec(t *testing.T, codec Codec, ext string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data"+ext)

	payload := bytes.Repeat([]byte("ACGTACGTACGTACGTACGT\n"), 1<<20/21+1) // > 1 MiB worth

	wc, err := CreateEncode(path, codec, false)
	require.NoError(t, err)
	_, err = wc.Write(payload)
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	rc, err := OpenDecode(path, codec)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got))
}

func TestAppendModeDoesNotTruncate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0644))

	wc, err := CreateEncode(path, None, true)
	require.NoError(t, err)
	_, err = wc.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(got))
}
