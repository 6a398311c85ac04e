package main

import (
	"bytes"

	"github.com/bebop/seqtool/internal/record"
)

// serializeRecord renders rec through the same writer type the final output
// will use, so a sort/unique spill-and-merge round trip is a byte-for-byte
// passthrough of each record's already-formatted bytes — no re-parsing
// needed once the merge produces records back in order.
func serializeRecord(rec *record.Record, format record.Format, sep byte, fm record.FieldMap, wrap int) ([]byte, error) {
	var buf bytes.Buffer
	var w record.Writer
	switch format {
	case record.FASTA:
		w = record.NewFastaWriter(&buf, wrap)
	case record.FASTQ:
		w = record.NewFastqWriter(&buf, record.Sanger)
	default:
		w = record.NewDelimWriter(&buf, sep, fm)
	}
	if err := w.Write(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeRecord parses data (one record's worth of already-serialized
// bytes, as produced by serializeRecord) back into a Record. Used by unique
// to re-open a spilled/in-memory representative for -a/-A attribute
// rendering once its post-dedup key/count/ID-list are known, since
// accumulator serializes records before that information exists.
func deserializeRecord(data []byte, format record.Format, sep byte) (*record.Record, error) {
	r := bytes.NewReader(data)
	var next func() (*record.Record, error)
	switch format {
	case record.FASTA:
		fr := record.NewFastaReader(r, defaultMaxLineSize)
		next = fr.Next
	case record.FASTQ:
		fq := record.NewFastqReader(r, defaultMaxLineSize, record.Sanger)
		next = fq.Next
	default:
		dr := record.NewDelimReader(r, sep, record.DefaultFieldMap, false)
		next = dr.Next
	}
	rec, err := next()
	if err != nil && rec == nil {
		return nil, err
	}
	return rec, nil
}
