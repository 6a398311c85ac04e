package search

import "sort"

// Match is one aligned occurrence of one pattern against one target
// sequence.
type Match struct {
	// PatternIndex is the pattern's slot after Search's final reordering
	// step (the pattern with the best overall hit is slot 0), matching
	// match_index in template/JS evaluation. It is NOT stable
	// across records and must not be used to identify a pattern by
	// identity; use OrigIndex for that.
	PatternIndex int
	// OrigIndex is the pattern's fixed position in the []*Pattern slice
	// passed to Search, unaffected by reordering. Callers that tally
	// per-pattern statistics across a whole run (e.g. --report) must index
	// by this field, not PatternIndex.
	OrigIndex       int
	HitRank         int
	Start, End      int // 1-based inclusive, relative to the target sequence
	Diffs           int
	Ins, Del, Subst int
	RegexGroups     []string
	// GroupStarts/GroupEnds hold 1-based inclusive positions (relative to
	// the target) for each entry in RegexGroups; nil for exact/myers hits,
	// which carry no sub-group structure.
	GroupStarts, GroupEnds []int
	AlignedPattern  string
	AlignedMatch    string
}

// backtrace runs an exact, gap-penalty-tie-broken edit-distance alignment
// of p against the window of target ending at end, recovering the
// minimal-distance start position, the ins/del/subst decomposition, and
// the aligned strings. This is the start-position refinement following
// the end-position scan: a semi-global backtrace that picks, among
// equal-cost alignments, the one minimizing subst + g*(ins+del).
func backtrace(p *Pattern, target []byte, end int, dist int) Match {
	n := len(p.Text)
	windowStart := end - n - p.MaxDiffs
	if windowStart < 0 {
		windowStart = 0
	}
	win := target[windowStart:end]
	m := len(win)

	type cell struct {
		cost int
		gapCost int // subst + g*(ins+del), used only to break cost ties
	}
	// dp[i][j]: cost of aligning pattern[:i] against a suffix of win
	// starting anywhere and ending at win[:j] (semi-global: free start
	// inside the window, anchored end at j == m).
	dp := make([][]cell, n+1)
	for i := range dp {
		dp[i] = make([]cell, m+1)
	}
	for j := 0; j <= m; j++ {
		dp[0][j] = cell{cost: 0, gapCost: 0} // free start: pattern start anywhere
	}
	for i := 1; i <= n; i++ {
		dp[i][0] = cell{cost: i, gapCost: i * p.GapPenalty} // leading deletions from pattern
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			subCost := 1
			if matchesAt(p, i-1, win[j-1]) {
				subCost = 0
			}
			sub := dp[i-1][j-1]
			sub.cost += subCost
			if subCost == 1 {
				sub.gapCost += 1
			}

			del := dp[i-1][j]
			del.cost++
			del.gapCost += p.GapPenalty

			ins := dp[i][j-1]
			ins.cost++
			ins.gapCost += p.GapPenalty

			best := sub
			if del.cost < best.cost || (del.cost == best.cost && del.gapCost < best.gapCost) {
				best = del
			}
			if ins.cost < best.cost || (ins.cost == best.cost && ins.gapCost < best.gapCost) {
				best = ins
			}
			dp[i][j] = best
		}
	}

	// The end column is fixed at m (anchored to endHit.end); pick j==m row
	// n, whose cost should equal dist (modulo windowing slack).
	_ = dist

	// Traceback from (n, m), preferring the move with the smallest gapCost
	// contribution on ties, matching the forward DP's tie-break so the
	// recovered path is consistent with the chosen cost.
	i, j := n, m
	var ins, del, subst int
	patAligned := make([]byte, 0, n+p.MaxDiffs)
	matAligned := make([]byte, 0, n+p.MaxDiffs)
	for i > 0 {
		if j > 0 {
			subCost := 1
			if matchesAt(p, i-1, win[j-1]) {
				subCost = 0
			}
			diag := dp[i-1][j-1]
			diag.cost += subCost
			if diag.cost == dp[i][j].cost {
				if subCost == 1 {
					diag.gapCost += 1
				}
				if diag.gapCost == dp[i][j].gapCost {
					if subCost == 1 {
						subst++
					}
					patAligned = append(patAligned, p.Text[i-1])
					matAligned = append(matAligned, win[j-1])
					i--
					j--
					continue
				}
			}
		}
		if j > 0 {
			left := dp[i][j-1]
			left.cost++
			left.gapCost += p.GapPenalty
			if left.cost == dp[i][j].cost && left.gapCost == dp[i][j].gapCost {
				ins++
				patAligned = append(patAligned, '-')
				matAligned = append(matAligned, win[j-1])
				j--
				continue
			}
		}
		// deletion (pattern letter consumed, no target letter)
		del++
		patAligned = append(patAligned, p.Text[i-1])
		matAligned = append(matAligned, '-')
		i--
	}
	start := windowStart + j + 1

	reverseBytes(patAligned)
	reverseBytes(matAligned)

	return Match{
		Start:          start,
		End:            end,
		Diffs:          dp[n][m].cost,
		Ins:            ins,
		Del:            del,
		Subst:          subst,
		AlignedPattern: string(patAligned),
		AlignedMatch:   string(matAligned),
	}
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// dedup collapses hits sharing the same (start, end) pair, keeping the
// first-seen entry.
func dedup(matches []Match) []Match {
	seen := make(map[[2]int]bool, len(matches))
	out := matches[:0]
	for _, m := range matches {
		key := [2]int{m.Start, m.End}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// rank sorts matches by ascending edit distance then ascending start
// (or, with inOrder, by start only), and assigns HitRank starting at 1.
func rank(matches []Match, inOrder bool) {
	sort.SliceStable(matches, func(i, j int) bool {
		if inOrder {
			return matches[i].Start < matches[j].Start
		}
		if matches[i].Diffs != matches[j].Diffs {
			return matches[i].Diffs < matches[j].Diffs
		}
		return matches[i].Start < matches[j].Start
	})
	for i := range matches {
		matches[i].HitRank = i + 1
	}
}

// anchor discards hits that are not within maxShiftStart of the sequence
// start and maxShiftEnd of the sequence end (either bound optional, -1
// meaning unset). Anchoring is applied post-hoc: a hit whose best
// alignment doesn't satisfy the shift bound is dropped rather than
// re-aligned to a worse but anchored position.
func anchor(matches []Match, seqLen, maxShiftStart, maxShiftEnd int) []Match {
	if maxShiftStart < 0 && maxShiftEnd < 0 {
		return matches
	}
	out := matches[:0]
	for _, m := range matches {
		if maxShiftStart >= 0 && m.Start > maxShiftStart+1 {
			continue
		}
		if maxShiftEnd >= 0 && (seqLen-m.End) > maxShiftEnd {
			continue
		}
		out = append(out, m)
	}
	return out
}
