/*
Package record defines the stream record model shared by every st
subcommand: the FASTA/FASTQ/delimited-text readers and writers all produce
and consume the same Record shape, generalizing poly's per-format
Fasta/Fastq structs (bio/fasta.Record, bio/fastq.Fastq) into one
discriminated type so that the variable-evaluation context and the
pipeline driver don't need to switch on format anywhere except at the
I/O boundary.
*/
package record

import "bytes"

// Format identifies which on-disk shape a Record was read from or should be
// written as.
type Format int

const (
	FASTA Format = iota
	FASTQ
	Delim
)

func (f Format) String() string {
	switch f {
	case FASTA:
		return "fasta"
	case FASTQ:
		return "fastq"
	case Delim:
		return "delim"
	default:
		return "unknown"
	}
}

// Record is one sequence read from any supported format. ID and Desc are
// split from the raw header at the first space, with no escaping. Seq
// may still carry FASTA line wrapping; callers that need a single
// contiguous byte slice should call Joined().
type Record struct {
	ID    []byte
	Desc  []byte
	Seq   []byte
	Qual  []byte // nil when absent
	Format Format

	// wrapped holds the raw, possibly multi-line FASTA sequence bytes
	// (newlines included) when the source was line-wrapped; Seq is nil in
	// that case until Joined() is called, which copies wrapped into a
	// contiguous buffer and caches it in Seq. FASTQ/delimited records never
	// populate wrapped since those formats are always single-line.
	wrapped []byte
}

// NewWrapped constructs a FASTA record whose sequence still contains the
// source's line breaks. Joined() must be called before Seq is trusted to be
// contiguous.
func NewWrapped(id, desc, wrapped []byte) *Record {
	return &Record{ID: id, Desc: desc, wrapped: wrapped, Format: FASTA}
}

// Joined returns the contiguous sequence bytes, materializing them from
// the wrapped source on first call and caching the result. The FASTA
// parser hands over its own copy of the possibly-wrapped bytes, and
// joining only happens when a consumer actually needs one contiguous
// sequence.
func (r *Record) Joined() []byte {
	if r.Seq != nil {
		return r.Seq
	}
	if r.wrapped == nil {
		return nil
	}
	buf := make([]byte, 0, len(r.wrapped))
	for _, line := range bytes.Split(r.wrapped, []byte("\n")) {
		buf = append(buf, line...)
	}
	r.Seq = buf
	return r.Seq
}

// Len returns the length of the joined sequence without permanently
// materializing a copy when the record is already unwrapped.
func (r *Record) Len() int {
	return len(r.Joined())
}

// Clone returns an owned copy of r, safe to retain across reader refills.
// Commands that accumulate records across many pull/evaluate cycles (sort,
// unique) must call this: a parser's buffers may be overwritten on the
// next Next() call.
func (r *Record) Clone() *Record {
	c := &Record{Format: r.Format}
	c.ID = cloneBytes(r.ID)
	c.Desc = cloneBytes(r.Desc)
	c.Seq = cloneBytes(r.Joined())
	c.Qual = cloneBytes(r.Qual)
	return c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// HeaderBytes reconstructs the full header line (without the leading
// '>' or '@' sigil): ID, then a space and Desc when Desc is non-empty.
func (r *Record) HeaderBytes() []byte {
	if len(r.Desc) == 0 {
		return r.ID
	}
	buf := make([]byte, 0, len(r.ID)+1+len(r.Desc))
	buf = append(buf, r.ID...)
	buf = append(buf, ' ')
	buf = append(buf, r.Desc...)
	return buf
}

// SetHeader replaces ID and Desc from a raw header line, splitting at the
// first space exactly as the parsers do.
func (r *Record) SetHeader(header []byte) {
	if i := bytes.IndexByte(header, ' '); i >= 0 {
		r.ID = header[:i]
		r.Desc = header[i+1:]
	} else {
		r.ID = header
		r.Desc = nil
	}
}
