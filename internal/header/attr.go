/*
Package header implements a `key=value` header-attribute scanner: an
ordered set of attributes embedded in a FASTA/FASTQ header according to
a configurable `<prefix><key><sep><value>` template, most commonly
`" key=value"` living in the description.
*/
package header

import (
	"bytes"
	"fmt"
)

// Format describes the attribute template. Prefix is typically " " (a
// space, meaning attributes live in the description) or something else
// (meaning they are appended onto the ID segment instead).
type Format struct {
	Prefix string
	Sep    string
}

// DefaultFormat is `" key=value"`.
var DefaultFormat = Format{Prefix: " ", Sep: "="}

// InDescription reports whether this format's attributes live in the
// description (prefix starts with whitespace) or the ID segment.
func (f Format) InDescription() bool {
	return len(f.Prefix) > 0 && (f.Prefix[0] == ' ' || f.Prefix[0] == '\t')
}

// Attr is one parsed key=value pair together with the byte range in the
// scanned segment it occupies (including the prefix), so callers can
// splice it out or replace it in place.
type Attr struct {
	Key, Value string
	Start, End int // byte offsets into the segment Scan was given
}

// Scan finds every non-overlapping `<prefix><key><sep><value>` match in
// segment, left to right. A bare prefix+key with no following sep yields
// no match; "missing value means undefined" is a variable-lookup rule,
// not a rule about what counts as a structural attribute match here.
func Scan(segment []byte, f Format) []Attr {
	var attrs []Attr
	prefix := []byte(f.Prefix)
	sep := []byte(f.Sep)
	if len(prefix) == 0 {
		return attrs
	}
	pos := 0
	for {
		i := bytes.Index(segment[pos:], prefix)
		if i < 0 {
			break
		}
		start := pos + i
		rest := segment[start+len(prefix):]
		sepIdx := bytes.Index(rest, sep)
		if sepIdx < 0 {
			pos = start + len(prefix)
			continue
		}
		key := rest[:sepIdx]
		if len(key) == 0 || bytes.ContainsAny(key, " \t") {
			// not a well-formed key=value token; keep scanning past the prefix
			pos = start + len(prefix)
			continue
		}
		valStart := start + len(prefix) + sepIdx + len(sep)
		valEnd := len(segment)
		if sp := bytes.IndexByte(segment[valStart:], ' '); sp >= 0 {
			valEnd = valStart + sp
		}
		attrs = append(attrs, Attr{
			Key:   string(key),
			Value: string(segment[valStart:valEnd]),
			Start: start,
			End:   valEnd,
		})
		pos = valEnd
	}
	return attrs
}

// Get returns the value of key in segment (first occurrence, since
// -A/Append can leave duplicate keys behind) and whether it was found.
func Get(segment []byte, f Format, key string) (string, bool) {
	for _, a := range Scan(segment, f) {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Set replaces the rightmost existing attribute with this key, or appends
// one using the format if none exists. This implements `-a k=v`.
func Set(segment []byte, f Format, key, value string) []byte {
	attrs := Scan(segment, f)
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return splice(segment, attrs[i].Start, attrs[i].End, render(f, key, value))
		}
	}
	return Append(segment, f, key, value)
}

// Append always appends a new attribute using the format, without checking
// for an existing key of the same name. This implements `-A k=v` (the
// fast-append mode that may produce duplicate keys).
func Append(segment []byte, f Format, key, value string) []byte {
	rendered := render(f, key, value)
	out := make([]byte, 0, len(segment)+len(rendered))
	out = append(out, segment...)
	out = append(out, rendered...)
	return out
}

// Del removes the first attribute with the given key, preserving
// surrounding separators, and reports whether one was found.
func Del(segment []byte, f Format, key string) ([]byte, bool) {
	for _, a := range Scan(segment, f) {
		if a.Key == key {
			return splice(segment, a.Start, a.End, nil), true
		}
	}
	return segment, false
}

func render(f Format, key, value string) []byte {
	return []byte(fmt.Sprintf("%s%s%s%s", f.Prefix, key, f.Sep, value))
}

func splice(segment []byte, start, end int, replacement []byte) []byte {
	out := make([]byte, 0, len(segment)-(end-start)+len(replacement))
	out = append(out, segment[:start]...)
	out = append(out, replacement...)
	out = append(out, segment[end:]...)
	return out
}
