/*
Package extsort implements the external sort and unique engine: an
in-memory accumulator that spills to length-prefixed temporary batch
files once a memory budget is exceeded, and a k-way min-heap merge that
reassembles sorted output across however many batches resulted.

External merge-sort has no direct analogue elsewhere in this codebase;
the in-memory sort stage instead follows the example pack's
`github.com/twotwotwo/sorts` usage (Schaudge-kmcp, shenwei356-unikmer),
which both reach for parallel quicksort over sort.Interface rather than
the stdlib's single-threaded sort.Sort for large in-memory record sets.
*/
package extsort

import (
	"bytes"
	"strconv"
)

// KeyField is one component of a (possibly composite) sort/unique key: the
// raw text plus whether it should compare numerically. A composite key is
// a comma-separated list of KeyFields compared lexicographically field by
// field, with numeric ordering applied only to fields marked Numeric.
type KeyField struct {
	Text    string
	Numeric bool
}

// Key is an ordered list of KeyFields forming one record's sort/group key.
type Key []KeyField

// Compare orders a against b field by field: numeric fields compare as
// parsed floats (unparseable falls back to text compare), text fields
// compare lexicographically.
func Compare(a, b Key) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareField(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func compareField(a, b KeyField) int {
	if a.Numeric && b.Numeric {
		af, aerr := strconv.ParseFloat(a.Text, 64)
		bf, berr := strconv.ParseFloat(b.Text, 64)
		if aerr == nil && berr == nil {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	return bytes.Compare([]byte(a.Text), []byte(b.Text))
}

// Encode renders a Key to its canonical comparable byte form, used as the
// sort key stored alongside each spilled record. Fields are joined with a
// NUL separator so the byte-comparison fallback used during the k-way
// merge's tie-break (after the richer Compare already decided spill
// ordering) never confuses field boundaries.
func Encode(k Key) []byte {
	var buf bytes.Buffer
	for i, f := range k {
		if i > 0 {
			buf.WriteByte(0)
		}
		buf.WriteString(f.Text)
	}
	return buf.Bytes()
}

// String renders the key for --map-out / diagnostics.
func (k Key) String() string {
	var buf bytes.Buffer
	for i, f := range k {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(f.Text)
	}
	return buf.String()
}
