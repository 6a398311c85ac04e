/*
Package iupac holds the ambiguity tables shared by sequence hashing,
reverse-complementation, and approximate pattern search.

IUPAC nucleotide codes map one letter to a set of concrete bases; protein
ambiguity codes (B, Z, X) map one letter to a set of amino acids. The
expansion tables are small maps built once at init time; the complement
table, ComplementDNA, is a 256-entry array, so complementing a byte is a
single array index.
*/
package iupac

// Expand returns the set of concrete letters an IUPAC ambiguity code denotes,
// for DNA/RNA. Concrete bases expand to themselves. Bytes not in the table
// also expand to themselves (see Expand).
var dnaExpand = map[byte]string{
	'A': "A", 'C': "C", 'G': "G", 'T': "T", 'U': "U",
	'R': "AG", 'Y': "CT", 'S': "CG", 'W': "AT", 'K': "GT", 'M': "AC",
	'B': "CGT", 'D': "AGT", 'H': "ACT", 'V': "ACG",
	'N': "ACGT",
}

// proteinExpand covers the standard 20 amino acids plus the ambiguity codes
// B (D or N), Z (E or Q), and X (any). U (selenocysteine) is excluded from
// ambiguity handling — it is treated as a concrete residue.
var proteinExpand = map[byte]string{
	'B': "DN", 'Z': "EQ", 'X': "ACDEFGHIKLMNPQRSTVWY",
}

// Alphabet selects which ambiguity table Expand/IsAmbiguous consult.
type Alphabet int

const (
	DNA Alphabet = iota
	RNA
	Protein
)

// Expand returns the sorted set of concrete letters c denotes under a, as a
// string of unique uppercase bytes. Concrete letters (not present in the
// ambiguity table) expand to themselves.
func Expand(a Alphabet, c byte) string {
	c = upper(c)
	switch a {
	case DNA, RNA:
		if s, ok := dnaExpand[c]; ok {
			return s
		}
	case Protein:
		if s, ok := proteinExpand[c]; ok {
			return s
		}
	}
	return string(c)
}

// IsAmbiguous reports whether c is a multi-base ambiguity code under a,
// rather than a concrete letter.
func IsAmbiguous(a Alphabet, c byte) bool {
	return len(Expand(a, c)) > 1
}

// MatchPatternToSeq implements the asymmetric IUPAC matching rule used by
// approximate search: a pattern letter p matches a sequence letter s iff
// every concrete letter s can denote is also denotable by p — i.e.
// expand(s) is a subset of expand(p). A concrete sequence letter
// (expand(s) a singleton) degenerates to "is s one of the letters p can
// mean", the ordinary case.
func MatchPatternToSeq(a Alphabet, p, s byte) bool {
	pSet := Expand(a, p)
	sSet := Expand(a, s)
	for i := 0; i < len(sSet); i++ {
		if !contains(pSet, sSet[i]) {
			return false
		}
	}
	return true
}

func contains(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// ComplementDNA maps a DNA/RNA letter (including ambiguity codes, either
// case) to its IUPAC complement. Letters outside the table (non-nucleotide
// bytes) map to themselves, matching poly's transform.Complement
// fallback behavior for unrecognized runes.
var ComplementDNA = buildComplementTable()

func buildComplementTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	pairs := map[byte]byte{
		'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
		'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
		'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D', 'N': 'N',
	}
	for u, c := range pairs {
		t[u] = c
		t[c] = u
		l := u + ('a' - 'A')
		lc := c + ('a' - 'A')
		t[l] = lc
		t[lc] = l
	}
	// U complements to A, but A keeps T as its complement.
	t['U'], t['u'] = 'A', 'a'
	return t
}
