/*
Package search implements a pattern-search engine: exact, regex, and
IUPAC-aware bit-parallel approximate matching, with the two-phase
end-position-scan / start-position-backtrace algorithm, hit ranking,
anchoring, and multi-pattern reordering.

Grounded on poly's search/align and search/bwt packages for the
general shape of a sequence-search component (pattern precompilation
separate from the per-target scan) and on internal/iupac for the
ambiguity tables the Myers DP's character-equivalence bitsets are built
from.
*/
package search

import (
	"fmt"
	"regexp"

	"github.com/bebop/seqtool/internal/iupac"
)

// Algo selects which matching engine a Pattern uses.
type Algo int

const (
	AlgoAuto Algo = iota
	AlgoExact
	AlgoMyers
	AlgoRegex
)

// Pattern is one precompiled search pattern: the raw letters, whether it
// carries IUPAC ambiguity, and (for Myers) the per-letter equivalence
// bitsets built once at compile time so the per-record scan does no
// per-byte table construction.
type Pattern struct {
	Text       []byte
	// Name identifies the pattern for pattern_name/pattern variable
	// resolution: the FASTA record ID when the pattern came from
	// --pattern-file, or the literal pattern text itself for a -p pattern.
	// Set by the caller after Compile/CompileRegex; empty by default.
	Name       string
	Alphabet   iupac.Alphabet
	Ambiguous  bool
	Algo       Algo
	MaxDiffs   int // absolute bound D, derived from --max-diffs or --max-diff-rate
	GapPenalty int // g, default 2
	Regex      *regexp.Regexp

	// eq[c] has bit i set when pattern letter Text[i] matches target byte c,
	// per the asymmetric IUPAC rule in iupac.MatchPatternToSeq. Built for
	// patterns up to 64 letters (wordSize); longer patterns fall back to
	// blockEq, a slice of per-block bitsets (see myers.go).
	eq      [256]uint64
	blockEq [][256]uint64 // set instead of eq when len(Text) > wordSize
}

const wordSize = 64

// Compile builds a Pattern ready for searching. alg == AlgoAuto resolves to
// AlgoExact when maxDiffs == 0 and the pattern carries no ambiguity, else
// AlgoMyers (the regex branch is selected explicitly by the caller, since
// it only applies to header-field targets, never to sequences).
func Compile(pattern string, alphabet iupac.Alphabet, maxDiffs, gapPenalty int, alg Algo) (*Pattern, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("pattern is empty")
	}
	p := &Pattern{
		Text:       []byte(pattern),
		Alphabet:   alphabet,
		MaxDiffs:   maxDiffs,
		GapPenalty: gapPenalty,
		Algo:       alg,
	}
	for _, c := range p.Text {
		if iupac.IsAmbiguous(alphabet, c) {
			p.Ambiguous = true
			break
		}
	}
	if alg == AlgoAuto {
		if maxDiffs == 0 && !p.Ambiguous {
			p.Algo = AlgoExact
		} else {
			p.Algo = AlgoMyers
		}
	}
	if p.Algo == AlgoMyers {
		p.buildEq()
	}
	return p, nil
}

// CompileRegex builds a Pattern that searches a header field with a
// standard (non-fuzzy) regular expression. Regex matching against
// sequence data is not supported.
func CompileRegex(pattern string) (*Pattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling regex %q: %w", pattern, err)
	}
	return &Pattern{Text: []byte(pattern), Algo: AlgoRegex, Regex: re}, nil
}

// buildEq constructs the per-letter equivalence bitsets for Myers DP. For
// patterns longer than wordSize it builds one bitset block per
// wordSize-letter chunk (blockEq), the fallback for patterns exceeding
// the engine's native word size.
func (p *Pattern) buildEq() {
	n := len(p.Text)
	if n <= wordSize {
		for c := 0; c < 256; c++ {
			var bits uint64
			for i, pc := range p.Text {
				if iupac.MatchPatternToSeq(p.Alphabet, pc, byte(c)) {
					bits |= 1 << uint(i)
				}
			}
			p.eq[c] = bits
		}
		return
	}
	blocks := (n + wordSize - 1) / wordSize
	p.blockEq = make([][256]uint64, blocks)
	for b := 0; b < blocks; b++ {
		start := b * wordSize
		end := start + wordSize
		if end > n {
			end = n
		}
		for c := 0; c < 256; c++ {
			var bits uint64
			for i := start; i < end; i++ {
				if iupac.MatchPatternToSeq(p.Alphabet, p.Text[i], byte(c)) {
					bits |= 1 << uint(i-start)
				}
			}
			p.blockEq[b][c] = bits
		}
	}
}

// Len returns the pattern length in letters.
func (p *Pattern) Len() int { return len(p.Text) }
