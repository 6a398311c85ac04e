package record

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// nextFunc is implemented by each format's reader. It is the
// format-agnostic seam the pipeline driver pulls through, regardless of
// whether the underlying stream is FASTA, FASTQ, or delimited text.
type nextFunc func() (*Record, error)

// Reader wraps a format reader behind one interface and adds the
// concurrent fan-in helpers poly's bio.Parser provides
// (ParseToChannel/ManyToChannel), generalized from a generic-typed parser
// over io.WriterTo data to the single concrete Record type used here.
type Reader struct {
	next nextFunc
	path string
}

func NewReader(path string, next nextFunc) *Reader {
	return &Reader{path: path, next: next}
}

// Path returns the input path this reader was opened from ("-" for
// stdin), feeding the path/filename/filestem/extension/dirname
// variables.
func (r *Reader) Path() string { return r.path }

// Next returns the next record, or io.EOF when exhausted.
func (r *Reader) Next() (*Record, error) {
	rec, err := r.next()
	if err != nil && !errors.Is(err, io.EOF) {
		return rec, fmt.Errorf("%s: %w", r.path, err)
	}
	return rec, err
}

// ToChannel pipes every record from r into ch, honoring ctx cancellation.
// If keepOpen is false the channel is closed on EOF, mirroring
// bio.Parser.ParseToChannel's "single file" vs "many files" modes.
func (r *Reader) ToChannel(ctx context.Context, ch chan<- *Record, keepOpen bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			rec, err := r.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				if !keepOpen {
					close(ch)
				}
				return err
			}
			if rec == nil {
				continue
			}
			ch <- rec
		}
	}
}

// ManyToChannel fans multiple readers into one channel concurrently,
// closing it once all readers finish or any one fails — the multi-file
// counterpart to ToChannel, adapted from bio.ManyToChannel.
func ManyToChannel(ctx context.Context, ch chan<- *Record, readers ...*Reader) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, rd := range readers {
		rd := rd
		g.Go(func() error {
			return rd.ToChannel(ctx, ch, true)
		})
	}
	err := g.Wait()
	close(ch)
	return err
}

// Writer is the format-agnostic counterpart, implemented by FastaWriter/
// FastqWriter/DelimWriter.
type Writer interface {
	Write(r *Record) error
}
