package sequtil

import "math"

// ExpectedError computes, for Sanger-encoded Q, the sum of 10^(-Q/10)
// over a canonical (already-converted-to-Sanger) quality slice.
func ExpectedError(qual []byte) float64 {
	var sum float64
	for _, b := range qual {
		q := float64(int(b) - 33)
		sum += math.Pow(10, -q/10)
	}
	return sum
}
