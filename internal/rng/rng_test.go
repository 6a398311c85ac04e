package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHandlesBoundedZeroBasedAndEmptyRanges(t *testing.T) {
	seq := []byte("ACGTA")

	two, four := 2, 4
	r := New(&two, &four, false, false)
	assert.Equal(t, "CGT", string(Slice(seq, r)))

	zbTwo, zbFour := 2, 4
	zr := New(&zbTwo, &zbFour, false, true)
	assert.Equal(t, "GT", string(Slice(seq, zr)))

	five, twoEnd := 5, 2
	er := New(&five, &twoEnd, false, false)
	assert.Equal(t, "", string(Slice(seq, er)))
}

func TestUnboundedRange(t *testing.T) {
	seq := []byte("ACGTA")
	r := New(nil, nil, false, false)
	assert.Equal(t, "ACGTA", string(Slice(seq, r)))
}

func TestNegativeRange(t *testing.T) {
	seq := []byte("ACGTA")
	negOne := -1
	r := New(nil, &negOne, false, false)
	assert.Equal(t, "ACGTA", string(Slice(seq, r))) // -1 -> last position
	negTwo := -2
	r2 := New(nil, &negTwo, false, false)
	assert.Equal(t, "ACGT", string(Slice(seq, r2)))
}

func TestExclusiveShrinksOnlyBoundedSides(t *testing.T) {
	seq := []byte("ACGTA")
	two, four := 2, 4
	r := New(&two, &four, true, false)
	// exclusive: start 2->3, end 4->3, both bounded -> slice [3,3] = "G"
	assert.Equal(t, "G", string(Slice(seq, r)))
}

func TestTrimConcatenatesMultiRange(t *testing.T) {
	seq := []byte("ACGTACGT")
	one, two := 1, 2
	five, six := 5, 6
	mr := MultiRange{New(&one, &two, false, false), New(&five, &six, false, false)}
	assert.Equal(t, "ACAC", string(Trim(seq, mr)))
}

func TestMaskSoftIsCommutative(t *testing.T) {
	seq := []byte("ACGTACGT")
	one, two := 1, 2
	three, four := 3, 4
	r1 := New(&one, &two, false, false)
	r2 := New(&three, &four, false, false)

	m1 := Mask(Mask(seq, MultiRange{r1}, false, 'N'), MultiRange{r2}, false, 'N')
	m2 := Mask(seq, MultiRange{r1, r2}, false, 'N')
	assert.Equal(t, string(m2), string(m1))
}

func TestMaskHardOverwrites(t *testing.T) {
	seq := []byte("ACGTACGT")
	one, four := 1, 4
	r := New(&one, &four, false, false)
	out := Mask(seq, MultiRange{r}, true, 'N')
	assert.Equal(t, "NNNNACGT", string(out))
}
