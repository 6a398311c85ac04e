package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanAndGet(t *testing.T) {
	seg := []byte(" some desc len=10 gc=55.2")
	v, ok := Get(seg, DefaultFormat, "len")
	assert.True(t, ok)
	assert.Equal(t, "10", v)

	v, ok = Get(seg, DefaultFormat, "gc")
	assert.True(t, ok)
	assert.Equal(t, "55.2", v)

	_, ok = Get(seg, DefaultFormat, "missing")
	assert.False(t, ok)
}

func TestSetReplacesRightmost(t *testing.T) {
	seg := []byte(" len=10 len=15")
	out := Set(seg, DefaultFormat, "len", "20")
	assert.Equal(t, " len=10 len=20", string(out))
}

func TestSetAppendsWhenAbsent(t *testing.T) {
	seg := []byte(" some desc")
	out := Set(seg, DefaultFormat, "len", "20")
	assert.Equal(t, " some desc len=20", string(out))
}

func TestAttributeIdempotence(t *testing.T) {
	// Setting an attribute twice with the same value leaves the header
	// byte-identical to setting it once.
	seg := []byte(" some desc")
	once := Set(seg, DefaultFormat, "len", "20")
	twice := Set(once, DefaultFormat, "len", "20")
	assert.Equal(t, string(once), string(twice))
}

func TestAppendAlwaysAppends(t *testing.T) {
	seg := []byte(" len=10")
	out := Append(seg, DefaultFormat, "len", "20")
	assert.Equal(t, " len=10 len=20", string(out))
	// lookups return the first occurrence under duplicate keys
	v, ok := Get(out, DefaultFormat, "len")
	assert.True(t, ok)
	assert.Equal(t, "10", v)
}

func TestDel(t *testing.T) {
	seg := []byte(" desc len=10 more")
	out, ok := Del(seg, DefaultFormat, "len")
	assert.True(t, ok)
	assert.Equal(t, " desc more", string(out))
}

func TestIDPrefixFormat(t *testing.T) {
	f := Format{Prefix: "|", Sep: "="}
	assert.False(t, f.InDescription())
	id := []byte("read1|len=10")
	v, ok := Get(id, f, "len")
	assert.True(t, ok)
	assert.Equal(t, "10", v)
}
