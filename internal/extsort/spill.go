package extsort

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// writeBatch serializes entries (already sorted) to w as a length-prefixed
// sequence of (keyLen uint32, key, recLen uint32, record) tuples.
func writeBatch(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	var hdr [4]byte
	for _, e := range entries {
		keyBytes := Encode(e.Key)
		binary.BigEndian.PutUint32(hdr[:], uint32(len(keyBytes)))
		if _, err := bw.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := bw.Write(keyBytes); err != nil {
			return err
		}
		binary.BigEndian.PutUint32(hdr[:], uint32(len(e.RecordBytes)))
		if _, err := bw.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := bw.Write(e.RecordBytes); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// spillEntry is one decoded tuple read back from a batch file. Key is kept
// as its encoded byte form (field boundaries are not needed again once
// spilled — batches are already sorted, so the merge only needs a total
// order over the encoded bytes, which Encode's NUL-joining preserves for
// same-shaped keys).
type spillEntry struct {
	key    []byte
	record []byte
}

// spillReader streams spillEntry values back out of a batch file in
// order.
type spillReader struct {
	f  *os.File
	br *bufio.Reader
}

func openSpillReader(path string) (*spillReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spill file %s: %w", path, err)
	}
	return &spillReader{f: f, br: bufio.NewReader(f)}, nil
}

// next returns the next entry, or (nil, io.EOF) at end of file.
func (r *spillReader) next() (*spillEntry, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r.br, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("spill file %s: truncated key length", r.f.Name())
		}
		return nil, err
	}
	keyLen := binary.BigEndian.Uint32(hdr[:])
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r.br, key); err != nil {
		return nil, fmt.Errorf("spill file %s: truncated key: %w", r.f.Name(), err)
	}
	if _, err := io.ReadFull(r.br, hdr[:]); err != nil {
		return nil, fmt.Errorf("spill file %s: truncated record length: %w", r.f.Name(), err)
	}
	recLen := binary.BigEndian.Uint32(hdr[:])
	rec := make([]byte, recLen)
	if _, err := io.ReadFull(r.br, rec); err != nil {
		return nil, fmt.Errorf("spill file %s: truncated record: %w", r.f.Name(), err)
	}
	return &spillEntry{key: key, record: rec}, nil
}

func (r *spillReader) close() error { return r.f.Close() }
