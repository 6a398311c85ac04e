package variable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/seqtool/internal/header"
	"github.com/bebop/seqtool/internal/record"
)

func newCtx(id, desc, seq string) *Context {
	rec := record.NewWrapped([]byte(id), []byte(desc), []byte(seq))
	return &Context{Rec: rec, SeqNum: 1, SeqIdx: 0, AttrFmt: header.DefaultFormat}
}

func TestCompileBareVariables(t *testing.T) {
	tmpl, err := Compile("{id}\t{seqlen}\t{gc_percent}", nil)
	require.NoError(t, err)

	ctx := newCtx("r1", "sample=X", "ACGTACGT")
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1\t8\t50", out)
}

func TestCompileUnknownVariableIsCompileError(t *testing.T) {
	// "bogus" parses as a bare identifier, so it's treated as a variable
	// reference, not JS — and an unrecognized name is still a compile error.
	_, err := Compile("{bogus}", nil)
	assert.Error(t, err)
}

func TestCompileSingleBraceFallsBackToJS(t *testing.T) {
	// "seqlen() * 2" doesn't parse as ident or ident(args), so single
	// braces reach the JS path exactly like {{ ... }} does.
	tmpl, err := Compile("{seqlen() * 2}", NewJSHost())
	require.NoError(t, err)
	ctx := newCtx("r1", "", "ACGT")
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "8", out)
}

func TestCompileSingleAndDoubleBraceAreEquivalent(t *testing.T) {
	host := NewJSHost()
	single, err := Compile("{seqlen() * 2}", host)
	require.NoError(t, err)
	double, err := Compile("{{ seqlen() * 2 }}", host)
	require.NoError(t, err)

	ctx := newCtx("r1", "", "ACGT")
	singleOut, err := single.Render(ctx)
	require.NoError(t, err)
	doubleOut, err := double.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, doubleOut, singleOut)
}

func TestCompileAttrAccessor(t *testing.T) {
	tmpl, err := Compile("{attr(sample)}", nil)
	require.NoError(t, err)
	ctx := newCtx("r1", "sample=X", "ACGT")
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "X", out)
}

func TestCompileMissingAttrIsFatal(t *testing.T) {
	tmpl, err := Compile("{attr(missing)}", nil)
	require.NoError(t, err)
	ctx := newCtx("r1", "sample=X", "ACGT")
	_, err = tmpl.Render(ctx)
	assert.Error(t, err)
}

func TestCompileOptAttrIsUndefined(t *testing.T) {
	tmpl, err := Compile("[{opt_attr(missing)}]", nil)
	require.NoError(t, err)
	ctx := newCtx("r1", "sample=X", "ACGT")
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[undefined]", out)
}

func TestCompileJSExpression(t *testing.T) {
	host := NewJSHost()
	tmpl, err := Compile("{{ seqlen() * 2 }}", host)
	require.NoError(t, err)
	ctx := newCtx("r1", "", "ACGT")
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "8", out)
}

func TestCompileEscapedBraces(t *testing.T) {
	tmpl, err := Compile(`\{literal\}`, nil)
	require.NoError(t, err)
	ctx := newCtx("r1", "", "ACGT")
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "{literal}", out)
}

func TestValueCompareUndefinedSortsLast(t *testing.T) {
	assert.Equal(t, -1, Compare(Int(1), Undefined()))
	assert.Equal(t, 1, Compare(Undefined(), Int(1)))
	assert.Equal(t, 0, Compare(Undefined(), Undefined()))
}

func TestValueCompareNaNSortsLast(t *testing.T) {
	nan := Float(math.NaN())
	assert.Equal(t, -1, Compare(Int(1), nan))
	assert.Equal(t, 1, Compare(nan, Int(1)))
	assert.Equal(t, 0, Compare(nan, nan))
}
