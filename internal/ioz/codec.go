/*
Package ioz implements the byte I/O and compression layer:
extension-sniffed codec selection for gzip/bzip2/lz4/zstd, append-mode
writers that never truncate, and (in thread.go) an optional background
codec goroutine feeding a bounded buffer queue so decompression overlaps
with parsing.
*/
package ioz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a compression layer, inferred from the outermost file
// extension
type Codec int

const (
	None Codec = iota
	Gzip
	Bzip2
	LZ4
	Zstd
)

// SniffCodec inspects path's outermost extension and returns the codec and
// the path with that extension stripped (so format sniffing can run on
// what remains).
func SniffCodec(path string) (Codec, string) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz":
		return Gzip, strings.TrimSuffix(path, filepath.Ext(path))
	case ".bz2":
		return Bzip2, strings.TrimSuffix(path, filepath.Ext(path))
	case ".lz4":
		return LZ4, strings.TrimSuffix(path, filepath.Ext(path))
	case ".zst":
		return Zstd, strings.TrimSuffix(path, filepath.Ext(path))
	default:
		return None, path
	}
}

// decompressingReadCloser wraps an underlying file handle together with the
// codec reader, so Close tears both down.
type decompressingReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (d *decompressingReadCloser) Close() error {
	var firstErr error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenDecode opens path (or stdin for "-") and wraps it with the decoder
// for codec. Multi-member gzip/bzip2 streams decode transparently because
// pgzip and dsnet/compress's bzip2 reader both consume concatenated members
// by default.
func OpenDecode(path string, codec Codec) (io.ReadCloser, error) {
	var f io.ReadCloser
	if path == "-" || path == "" {
		f = io.NopCloser(os.Stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		f = file
	}

	switch codec {
	case None:
		return f, nil
	case Gzip:
		gz, err := pgzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &decompressingReadCloser{Reader: gz, closers: []io.Closer{f, gz}}, nil
	case Bzip2:
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("bzip2 %s: %w", path, err)
		}
		return &decompressingReadCloser{Reader: bz, closers: []io.Closer{f, bz}}, nil
	case LZ4:
		lr := lz4.NewReader(f)
		return &decompressingReadCloser{Reader: lr, closers: []io.Closer{f}}, nil
	case Zstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		return &decompressingReadCloser{Reader: zr, closers: []io.Closer{f, closerFunc(zr.Close)}}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("unknown codec %d", codec)
	}
}

type closerFunc func()

func (c closerFunc) Close() error { c(); return nil }

// encodeWriteCloser finalizes the codec layer before closing the
// underlying file: failure to flush is a fatal error, so every codec
// exit path must call finalize-then-close.
type encodeWriteCloser struct {
	io.Writer
	finalize func() error
	file     io.Closer
}

func (e *encodeWriteCloser) Close() error {
	if e.finalize != nil {
		if err := e.finalize(); err != nil {
			return fmt.Errorf("finalize: %w", err)
		}
	}
	if e.file != nil {
		return e.file.Close()
	}
	return nil
}

// CreateEncode opens path for writing (appending when append is true,
// truncating otherwise) and wraps it with the encoder for codec. In
// append mode the caller must not emit any format headers that would be
// duplicated across appends — that responsibility lives one layer up, in
// the record writers.
func CreateEncode(path string, codec Codec, appendMode bool) (io.WriteCloser, error) {
	var f *os.File
	var err error
	if path == "-" || path == "" {
		// stdout is never truncated/appended in the filesystem sense; just
		// wrap it directly.
		return wrapEncoder(nopWriteCloser{os.Stdout}, codec)
	}
	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err = os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return wrapEncoder(f, codec)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func wrapEncoder(f io.WriteCloser, codec Codec) (io.WriteCloser, error) {
	bw := bufio.NewWriter(f)
	switch codec {
	case None:
		return &encodeWriteCloser{Writer: bw, finalize: bw.Flush, file: f}, nil
	case Gzip:
		gz := pgzip.NewWriter(bw)
		return &encodeWriteCloser{Writer: gz, finalize: func() error {
			if err := gz.Close(); err != nil {
				return err
			}
			return bw.Flush()
		}, file: f}, nil
	case Bzip2:
		bz, err := bzip2.NewWriter(bw, nil)
		if err != nil {
			return nil, err
		}
		return &encodeWriteCloser{Writer: bz, finalize: func() error {
			if err := bz.Close(); err != nil {
				return err
			}
			return bw.Flush()
		}, file: f}, nil
	case LZ4:
		lw := lz4.NewWriter(bw)
		return &encodeWriteCloser{Writer: lw, finalize: func() error {
			if err := lw.Close(); err != nil {
				return err
			}
			return bw.Flush()
		}, file: f}, nil
	case Zstd:
		zw, err := zstd.NewWriter(bw)
		if err != nil {
			return nil, err
		}
		return &encodeWriteCloser{Writer: zw, finalize: func() error {
			if err := zw.Close(); err != nil {
				return err
			}
			return bw.Flush()
		}, file: f}, nil
	default:
		return nil, fmt.Errorf("unknown codec %d", codec)
	}
}
