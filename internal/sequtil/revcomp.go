/*
Package sequtil implements sequence utilities: IUPAC-aware reverse
complementation, GC content, expected error, and (in hash.go) XXH3-based
strand-agnostic sequence hashes.

ReverseComplement is grounded on poly's transform.ReverseComplement,
generalized from two separate rune maps (uppercase and lowercase, hand
enumerated) to the shared iupac.ComplementDNA byte table so the ambiguity
set stays in one place across this package and internal/search.
*/
package sequtil

import "github.com/bebop/seqtool/internal/iupac"

// ReverseComplement returns the reverse complement of a DNA/RNA sequence.
// Ambiguity codes are complemented per IUPAC (e.g. R<->Y); non-nucleotide
// bytes pass through unchanged, matching iupac.ComplementDNA's identity
// fallback.
func ReverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	n := len(seq)
	for i, b := range seq {
		out[n-1-i] = iupac.ComplementDNA[b]
	}
	return out
}

// ReverseQuality reverses a quality array without complementing it:
// qualities are reversed, not complemented.
func ReverseQuality(q []byte) []byte {
	out := make([]byte, len(q))
	n := len(q)
	for i, b := range q {
		out[n-1-i] = b
	}
	return out
}

// GCPercent computes 100*count(G|C)/count(A|C|G|T|U) over uppercase
// letters only: lowercase (softmasked) letters and N are excluded from
// both the numerator and the denominator.
func GCPercent(seq []byte) float64 {
	var gc, total int
	for _, b := range seq {
		switch b {
		case 'G', 'C':
			gc++
			total++
		case 'A', 'T', 'U':
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(gc) / float64(total)
}

// GCCount returns the raw count(G|C) used by the gc variable (as opposed to
// gc_percent).
func GCCount(seq []byte) int {
	var gc int
	for _, b := range seq {
		if b == 'G' || b == 'C' {
			gc++
		}
	}
	return gc
}

// CharCount counts occurrences of any byte in chars within seq, for the
// charcount(chars) variable.
func CharCount(seq []byte, chars string) int {
	var n int
	for _, b := range seq {
		for i := 0; i < len(chars); i++ {
			if b == chars[i] {
				n++
				break
			}
		}
	}
	return n
}

// UngappedLen counts sequence bytes that are not the gap character '-'.
func UngappedLen(seq []byte) int {
	n := len(seq)
	for _, b := range seq {
		if b == '-' {
			n--
		}
	}
	return n
}
