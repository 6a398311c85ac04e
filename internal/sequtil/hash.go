package sequtil

import "github.com/zeebo/xxh3"

// SeqHash returns the XXH3-64 hash of seq exactly as given — the `seqhash`
// variable.
func SeqHash(seq []byte) uint64 {
	return xxh3.Hash(seq)
}

// SeqHashRev returns the XXH3-64 hash of the reverse complement of seq — the
// `seqhash_rev` variable.
func SeqHashRev(seq []byte) uint64 {
	return xxh3.Hash(ReverseComplement(seq))
}

// SeqHashMin returns min(seqhash, seqhash_rev): strand-agnostic, identical
// for a sequence and its reverse complement. min(h, h_rev) was chosen over
// a wrapping-add combinator; see DESIGN.md.
func SeqHashMin(seq []byte) uint64 {
	h := SeqHash(seq)
	hRev := SeqHashRev(seq)
	if hRev < h {
		return hRev
	}
	return h
}
