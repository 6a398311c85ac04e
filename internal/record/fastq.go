package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// FastqReader parses 4-line FASTQ records. It is a generalization of
// poly's bio/fastq.Parser: same bufio.Reader + ReadSlice('\n') 4-line
// state machine, but it drops poly's nanopore-only "optionals" map
// and ATGCN-only alphabet check (both out of scope for a generic FASTQ
// record) in favor of header-attribute parsing at a higher layer and
// full-alphabet sequence acceptance: a sequence byte is any printable
// ASCII character.
type FastqReader struct {
	r    *bufio.Reader
	line uint
	enc  QualEncoding
}

func NewFastqReader(r io.Reader, maxLineSize int, enc QualEncoding) *FastqReader {
	return &FastqReader{r: bufio.NewReaderSize(r, maxLineSize), enc: enc}
}

// Next reads one FASTQ record, converting its quality bytes to the
// canonical Sanger encoding in memory.
func (p *FastqReader) Next() (*Record, error) {
	if _, err := p.r.Peek(1); err != nil {
		return nil, err
	}

	header, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if len(header) == 0 || header[0] != '@' {
		return nil, fmt.Errorf("fastq: expected '@' at line %d", p.line)
	}

	seq, err := p.readLine()
	if err != nil {
		return nil, err
	}

	plus, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if len(plus) == 0 || plus[0] != '+' {
		return nil, fmt.Errorf("fastq: expected '+' at line %d", p.line)
	}

	qual, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if len(qual) != len(seq) {
		return nil, fmt.Errorf("fastq: sequence/quality length mismatch at line %d (%d vs %d)", p.line, len(seq), len(qual))
	}

	rec := &Record{Format: FASTQ}
	rec.SetHeader(header[1:])
	rec.Seq = seq
	rec.Qual = make([]byte, len(qual))
	for i, b := range qual {
		rec.Qual[i] = p.enc.ToPhred(b)
	}
	return rec, nil
}

// readLine reads one line, stripping the trailing newline (and a preceding
// \r for CRLF input), and copies it out of the bufio.Reader's internal
// buffer so it survives the next ReadSlice call.
func (p *FastqReader) readLine() ([]byte, error) {
	line, err := p.r.ReadSlice('\n')
	p.line++
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("fastq: line %d too long for buffer: %w", p.line, err)
		}
		if errors.Is(err, io.EOF) && len(line) == 0 {
			return nil, io.EOF
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("fastq: unexpected EOF mid-record at line %d", p.line)
		}
		return nil, err
	}
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	out := make([]byte, len(line))
	copy(out, line)
	return out, nil
}

// FastqWriter writes records in FASTQ format, re-encoding quality bytes
// from the in-memory Sanger representation to enc.
type FastqWriter struct {
	w   io.Writer
	enc QualEncoding
}

func NewFastqWriter(w io.Writer, enc QualEncoding) *FastqWriter {
	return &FastqWriter{w: w, enc: enc}
}

func (fw *FastqWriter) Write(r *Record) error {
	seq := r.Joined()
	qual := r.Qual
	if qual == nil {
		qual = make([]byte, len(seq))
		for i := range qual {
			qual[i] = 'I' // Phred 40, a neutral filler when a source had no qualities
		}
	}
	out := make([]byte, len(qual))
	for i, b := range qual {
		out[i] = fw.enc.FromPhred(b)
	}
	if _, err := fw.w.Write([]byte{'@'}); err != nil {
		return err
	}
	if _, err := fw.w.Write(r.HeaderBytes()); err != nil {
		return err
	}
	if _, err := fw.w.Write([]byte("\n")); err != nil {
		return err
	}
	if _, err := fw.w.Write(seq); err != nil {
		return err
	}
	if _, err := fw.w.Write([]byte("\n+\n")); err != nil {
		return err
	}
	if _, err := fw.w.Write(out); err != nil {
		return err
	}
	_, err := fw.w.Write([]byte("\n"))
	return err
}
