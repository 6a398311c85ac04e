package variable

import (
	"fmt"
	"strconv"
	"strings"
)

// segKind discriminates a compiled template's pieces.
type segKind int

const (
	segLiteral segKind = iota
	segVar
	segJS
)

type segment struct {
	kind segKind
	lit  string
	h    Handle
	js   *compiledJS
}

// Template is a compiled `-t`/output-format string: literal runs
// interleaved with bare variable references (`{name}` / `{name(arg)}`) and
// JS expressions (`{{expr}}`, the legacy double-brace escape kept for
// backward compatibility with older format strings).
type Template struct {
	segments []segment
	host     *JSHost
}

// Compile parses src into a Template. A malformed or unrecognized bare
// variable is a compile-time error, not a per-record Undefined.
func Compile(src string, host *JSHost) (*Template, error) {
	t := &Template{host: host}
	i := 0
	n := len(src)
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{kind: segLiteral, lit: lit.String()})
			lit.Reset()
		}
	}
	for i < n {
		c := src[i]
		if c == '\\' && i+1 < n && (src[i+1] == '{' || src[i+1] == '}' || src[i+1] == '\\') {
			lit.WriteByte(src[i+1])
			i += 2
			continue
		}
		if c != '{' {
			lit.WriteByte(c)
			i++
			continue
		}
		// '{' encountered: determine single vs double brace.
		if i+1 < n && src[i+1] == '{' {
			end := strings.Index(src[i+2:], "}}")
			if end < 0 {
				return nil, fmt.Errorf("unterminated {{ expression in template at byte %d", i)
			}
			expr := src[i+2 : i+2+end]
			flushLit()
			cjs, err := compileJS(expr, host)
			if err != nil {
				return nil, fmt.Errorf("compiling JS expression %q: %w", expr, err)
			}
			t.segments = append(t.segments, segment{kind: segJS, js: cjs})
			i = i + 2 + end + 2
			continue
		}
		end := strings.IndexByte(src[i+1:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated { variable in template at byte %d", i)
		}
		token := src[i+1 : i+1+end]
		flushLit()
		if name, arg, ok := parseBareVariable(token); ok {
			h, ok := Lookup(name, arg)
			if !ok {
				return nil, fmt.Errorf("unrecognized variable %q", name)
			}
			t.segments = append(t.segments, segment{kind: segVar, h: h})
			i = i + 1 + end + 1
			continue
		}
		// token doesn't parse as ident or ident(args): fall back to a JS
		// expression, same as the {{...}} form.
		cjs, err := compileJS(token, host)
		if err != nil {
			return nil, fmt.Errorf("compiling JS expression %q: %w", token, err)
		}
		t.segments = append(t.segments, segment{kind: segJS, js: cjs})
		i = i + 1 + end + 1
	}
	flushLit()
	return t, nil
}

// splitNameArg splits "name" or "name(arg)" into its parts. arg may itself
// contain a quoted string, e.g. attr("collection date").
func splitNameArg(token string) (name, arg string, err error) {
	open := strings.IndexByte(token, '(')
	if open < 0 {
		return token, "", nil
	}
	if !strings.HasSuffix(token, ")") {
		return "", "", fmt.Errorf("missing closing paren in %q", token)
	}
	name = token[:open]
	arg = token[open+1 : len(token)-1]
	arg = strings.Trim(arg, `"'`)
	return name, arg, nil
}

// parseBareVariable reports whether token matches the bare-variable
// grammar, `ident` or `ident(args...)`, returning the split name/arg when
// it does. Anything else (operators, whitespace, an unmatched paren) is
// not a bare variable, and the caller falls back to treating the whole
// token as a JS expression instead.
func parseBareVariable(token string) (name, arg string, ok bool) {
	name, arg, err := splitNameArg(token)
	if err != nil || !isIdentLike(name) {
		return "", "", false
	}
	return name, arg, true
}

// isIdentLike reports whether s is a valid bare identifier: letters,
// digits, and underscores, not starting with a digit. Template content
// that fails this (spaces, operators, dots) is JS, not a variable name.
func isIdentLike(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Render evaluates the template against ctx, producing the output string.
// A missing (non-opt) attr/meta reference surfaces its error to the
// caller, which is a fatal (or per-record recoverable, depending on
// command) condition — never silently rendered as empty.
func (t *Template) Render(ctx *Context) (string, error) {
	var out strings.Builder
	for _, seg := range t.segments {
		switch seg.kind {
		case segLiteral:
			out.WriteString(seg.lit)
		case segVar:
			v, err := ctx.Resolve(seg.h)
			if err != nil {
				return "", err
			}
			out.WriteString(v.String())
		case segJS:
			v, err := seg.js.eval(ctx)
			if err != nil {
				return "", err
			}
			out.WriteString(v.String())
		}
	}
	return out.String(), nil
}

// UsesMatch reports whether any segment references a match_* variable or JS
// expression that might, so the pipeline driver knows whether it must
// populate ctx.Match before rendering.
func (t *Template) UsesMatch() bool {
	for _, seg := range t.segments {
		if seg.kind == segVar && seg.h.ID >= IDMatchIndex && seg.h.ID <= IDMatchNegRange {
			return true
		}
		if seg.kind == segJS {
			return true // a JS expression may reference match_* via its globals; conservative.
		}
	}
	return false
}

func parseIntArg(arg string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	return n, err == nil
}
