package main

import (
	"fmt"
	"strings"

	"github.com/bebop/seqtool/internal/extsort"
	"github.com/bebop/seqtool/internal/variable"
)

// keySpec is a compiled sort/unique key: a comma-separated list of bare
// variable references (e.g. "seqlen,id"), each resolved against a record's
// Context to build one extsort.KeyField. A field's numeric-ness is taken
// from the resolved Value's own Kind (Int/Float), so "seqlen" sorts
// numerically and "id" sorts lexically without any extra flag syntax.
type keySpec []variable.Handle

func compileKeySpec(s string) (keySpec, error) {
	if s == "" {
		return nil, fmt.Errorf("a sort/unique key is required")
	}
	var spec keySpec
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		name, arg, _ := splitKeyArg(tok)
		h, ok := variable.Lookup(name, arg)
		if !ok {
			return nil, fmt.Errorf("unrecognized sort/unique key variable %q", tok)
		}
		spec = append(spec, h)
	}
	if len(spec) == 0 {
		return nil, fmt.Errorf("sort/unique key %q contained no fields", s)
	}
	return spec, nil
}

func splitKeyArg(tok string) (name, arg string, hasArg bool) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return tok, "", false
	}
	return tok[:open], strings.Trim(tok[open+1:len(tok)-1], `"'`), true
}

// Resolve evaluates every field of the key against ctx.
func (k keySpec) Resolve(ctx *variable.Context) (extsort.Key, error) {
	out := make(extsort.Key, len(k))
	for i, h := range k {
		v, err := ctx.Resolve(h)
		if err != nil {
			return nil, err
		}
		out[i] = extsort.KeyField{
			Text:    v.String(),
			Numeric: v.Kind == variable.KindInt || v.Kind == variable.KindFloat,
		}
	}
	return out, nil
}
