package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bebop/seqtool/internal/rng"
)

// parseRanges parses a comma-separated list of "start:end" tokens (either
// side may be empty for Undefined) into a rng.MultiRange. zeroBased/excl
// apply uniformly to every range in the list, matching poly's habit
// of a handful of orthogonal boolean flags rather than an expanded
// per-range mini-syntax.
func parseRanges(spec string, zeroBased, excl bool) (rng.MultiRange, error) {
	if spec == "" {
		return nil, fmt.Errorf("a range spec (-r) is required")
	}
	var out rng.MultiRange
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		parts := strings.SplitN(tok, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed range %q (want start:end)", tok)
		}
		start, err := parseBound(parts[0])
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", tok, err)
		}
		end, err := parseBound(parts[1])
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", tok, err)
		}
		out = append(out, rng.New(start, end, excl, zeroBased))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("range spec %q contained no ranges", spec)
	}
	return out, nil
}

func parseBound(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", s)
	}
	return &n, nil
}
