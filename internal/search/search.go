package search

import "bytes"

// Options configures one multi-pattern search run against a single target:
// the search range, anchoring shift limits, and ranking order. Patterns
// are passed separately so callers can reuse compiled Patterns across
// records.
type Options struct {
	SearchRange struct {
		Start, End int // 0 both means "whole sequence"
	}
	// MaxShiftStart/MaxShiftEnd gate anchoring; -1 means unset (no
	// anchoring on that side). The zero value of Options is NOT usable
	// directly for this reason — callers must set both to -1 unless they
	// intend the (unusual) zero-shift anchor.
	MaxShiftStart int
	MaxShiftEnd   int
	InOrder       bool
}

// Search runs every pattern against target and returns the combined,
// ranked, anchored match set with PatternIndex populated. As a final
// step, patterns are renumbered so the pattern with the best overall hit
// sorts first.
func Search(patterns []*Pattern, target []byte, opts Options) []Match {
	windowed := target
	offset := 0
	if opts.SearchRange.End > 0 && opts.SearchRange.End <= len(target) && opts.SearchRange.Start >= 0 {
		windowed = target[opts.SearchRange.Start:opts.SearchRange.End]
		offset = opts.SearchRange.Start
	}

	type perPattern struct {
		origIndex int
		matches   []Match
	}
	all := make([]perPattern, len(patterns))

	for pi, p := range patterns {
		var matches []Match
		switch p.Algo {
		case AlgoRegex:
			matches = searchRegex(p, windowed)
		case AlgoExact:
			matches = searchExact(p, windowed)
		default:
			matches = searchMyers(p, windowed)
		}
		for i := range matches {
			matches[i].Start += offset
			matches[i].End += offset
			matches[i].OrigIndex = pi
		}
		matches = dedup(matches)
		rank(matches, opts.InOrder)
		matches = anchor(matches, len(target), opts.MaxShiftStart, opts.MaxShiftEnd)
		all[pi] = perPattern{origIndex: pi, matches: matches}
	}

	// Phase 6: reorder patterns by their best hit (lowest distance, then
	// lowest start); a pattern with no hits sorts last.
	order := make([]int, len(all))
	for i := range order {
		order[i] = i
	}
	best := func(idx int) (int, int, bool) {
		ms := all[idx].matches
		if len(ms) == 0 {
			return 0, 0, false
		}
		return ms[0].Diffs, ms[0].Start, true
	}
	for i := 1; i < len(order); i++ {
		for k := i; k > 0; k-- {
			a, b := order[k-1], order[k]
			da, sa, oka := best(a)
			db, sb, okb := best(b)
			swap := false
			switch {
			case oka && !okb:
				swap = false
			case !oka && okb:
				swap = true
			case oka && okb:
				if db < da || (db == da && sb < sa) {
					swap = true
				}
			}
			if !swap {
				break
			}
			order[k-1], order[k] = order[k], order[k-1]
		}
	}

	var out []Match
	for newIndex, idx := range order {
		for _, m := range all[idx].matches {
			m.PatternIndex = newIndex
			out = append(out, m)
		}
	}
	return out
}

func searchExact(p *Pattern, target []byte) []Match {
	var out []Match
	pos := 0
	for {
		i := bytes.Index(target[pos:], p.Text)
		if i < 0 {
			break
		}
		start := pos + i
		out = append(out, Match{
			Start:          start + 1,
			End:            start + len(p.Text),
			AlignedPattern: string(p.Text),
			AlignedMatch:   string(target[start : start+len(p.Text)]),
		})
		pos = start + 1
	}
	return out
}

func searchRegex(p *Pattern, target []byte) []Match {
	locs := p.Regex.FindAllSubmatchIndex(target, -1)
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		groups := make([]string, 0, len(loc)/2-1)
		starts := make([]int, 0, len(loc)/2-1)
		ends := make([]int, 0, len(loc)/2-1)
		for g := 2; g < len(loc); g += 2 {
			if loc[g] < 0 {
				groups = append(groups, "")
				starts = append(starts, 0)
				ends = append(ends, 0)
				continue
			}
			groups = append(groups, string(target[loc[g]:loc[g+1]]))
			starts = append(starts, loc[g]+1)
			ends = append(ends, loc[g+1])
		}
		out = append(out, Match{
			Start:        loc[0] + 1,
			End:          loc[1],
			RegexGroups:  groups,
			GroupStarts:  starts,
			GroupEnds:    ends,
			AlignedMatch: string(target[loc[0]:loc[1]]),
		})
	}
	return out
}

func searchMyers(p *Pattern, target []byte) []Match {
	ends := scanEndPositions(p, target)
	out := make([]Match, 0, len(ends))
	for _, h := range ends {
		out = append(out, backtrace(p, target, h.end, h.dist))
	}
	return out
}
