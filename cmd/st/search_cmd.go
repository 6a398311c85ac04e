package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/iupac"
	"github.com/bebop/seqtool/internal/pipeline"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/search"
	"github.com/bebop/seqtool/internal/variable"
)

// searchFlags is the flag set shared by find and replace: pattern
// compilation inputs (-p/--pattern-file, --alphabet, --max-diffs), the
// search range/anchor/ranking knobs, and which record field the patterns
// run against.
func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "p", Usage: "a pattern to search for; repeatable"},
		&cli.StringFlag{Name: "pattern-file", Usage: "a FASTA file whose sequences are additional patterns"},
		&cli.StringFlag{Name: "on", Value: "seq", Usage: "field to search: seq, id, or desc"},
		&cli.StringFlag{Name: "alphabet", Value: "dna", Usage: "dna, rna, or protein (selects the IUPAC ambiguity table)"},
		&cli.IntFlag{Name: "max-diffs", Usage: "absolute maximum edit distance"},
		&cli.Float64Flag{Name: "max-diff-rate", Usage: "maximum edit distance as a fraction of pattern length"},
		&cli.IntFlag{Name: "gap-penalty", Value: 2, Usage: "gap penalty used to break ties between equal-distance alignments"},
		&cli.StringFlag{Name: "algo", Value: "auto", Usage: "auto, exact, myers, or regex"},
		&cli.StringFlag{Name: "range", Usage: "restrict the search to target[start:end] (0-based, end exclusive)"},
		&cli.IntFlag{Name: "max-shift-start", Value: -1, Usage: "reject hits starting more than N bytes into the target (-1 disables)"},
		&cli.IntFlag{Name: "max-shift-end", Value: -1, Usage: "reject hits ending more than N bytes before the target's end (-1 disables)"},
		&cli.BoolFlag{Name: "in-order", Usage: "rank hits by start position only, instead of distance then start"},
		&cli.BoolFlag{Name: "f", Usage: "keep only records with at least one hit"},
		&cli.BoolFlag{Name: "e", Usage: "keep only records with no hits"},
	}
}

// compilePatterns builds every -p/--pattern-file pattern against the chosen
// algorithm and alphabet, resolving --max-diffs/--max-diff-rate per pattern
// (the rate is evaluated against each pattern's own length, so a single
// --max-diff-rate flag yields a different absolute D per pattern).
func compilePatterns(c *cli.Context) ([]*search.Pattern, error) {
	type rawPattern struct {
		text, name string
	}
	var raw []rawPattern
	for _, p := range c.StringSlice("p") {
		raw = append(raw, rawPattern{text: p, name: p})
	}
	if pf := c.String("pattern-file"); pf != "" {
		more, err := patternsFromFasta(pf)
		if err != nil {
			return nil, err
		}
		for _, p := range more {
			raw = append(raw, rawPattern{text: p.text, name: p.name})
		}
	}
	if len(raw) == 0 {
		return nil, errNoPatterns
	}

	alphabet, err := parseAlphabet(c.String("alphabet"))
	if err != nil {
		return nil, err
	}
	algo, err := parseAlgo(c.String("algo"))
	if err != nil {
		return nil, err
	}
	gapPenalty := c.Int("gap-penalty")
	rate := c.Float64("max-diff-rate")

	out := make([]*search.Pattern, 0, len(raw))
	for _, rp := range raw {
		if algo == search.AlgoRegex {
			p, err := search.CompileRegex(rp.text)
			if err != nil {
				return nil, err
			}
			p.Name = rp.name
			out = append(out, p)
			continue
		}
		maxDiffs := c.Int("max-diffs")
		if rate > 0 {
			d := int(rate * float64(len(rp.text)))
			if d > maxDiffs {
				maxDiffs = d
			}
		}
		p, err := search.Compile(rp.text, alphabet, maxDiffs, gapPenalty, algo)
		if err != nil {
			return nil, err
		}
		p.Name = rp.name
		out = append(out, p)
	}
	return out, nil
}

// fastaPattern is a pattern sourced from --pattern-file, keeping the FASTA
// record's ID as the pattern's name (distinct from its sequence text) for
// pattern_name variable resolution.
type fastaPattern struct {
	text, name string
}

func patternsFromFasta(path string) ([]fastaPattern, error) {
	r, err := openOneReader(path, "fasta")
	if err != nil {
		return nil, err
	}
	var out []fastaPattern
	for {
		rec, err := r.Next()
		if rec != nil {
			out = append(out, fastaPattern{text: string(rec.Joined()), name: string(rec.ID)})
		}
		if err != nil {
			break
		}
	}
	return out, nil
}

func parseAlphabet(s string) (iupac.Alphabet, error) {
	switch strings.ToLower(s) {
	case "", "dna":
		return iupac.DNA, nil
	case "rna":
		return iupac.RNA, nil
	case "protein":
		return iupac.Protein, nil
	default:
		return 0, fmt.Errorf("unrecognized --alphabet %q", s)
	}
}

func parseAlgo(s string) (search.Algo, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return search.AlgoAuto, nil
	case "exact":
		return search.AlgoExact, nil
	case "myers":
		return search.AlgoMyers, nil
	case "regex":
		return search.AlgoRegex, nil
	default:
		return 0, fmt.Errorf("unrecognized --algo %q", s)
	}
}

// targetOf returns the bytes a search command's patterns should run
// against, per --on.
func targetOf(rec *record.Record, on string) []byte {
	switch on {
	case "id":
		return rec.ID
	case "desc":
		return rec.Desc
	default:
		return rec.Joined()
	}
}

func searchOptionsFrom(c *cli.Context) search.Options {
	var opts search.Options
	opts.MaxShiftStart = c.Int("max-shift-start")
	opts.MaxShiftEnd = c.Int("max-shift-end")
	opts.InOrder = c.Bool("in-order")
	if r := c.String("range"); r != "" {
		var start, end int
		fmt.Sscanf(r, "%d:%d", &start, &end)
		opts.SearchRange.Start = start
		opts.SearchRange.End = end
	}
	return opts
}

// patternStats converts a per-pattern hit-count tally, indexed the same way
// as patterns, into the Patterns slice --report emits.
func patternStats(patterns []*search.Pattern, hits []int64) []pipeline.PatternStat {
	out := make([]pipeline.PatternStat, len(patterns))
	for i, p := range patterns {
		out[i] = pipeline.PatternStat{Index: i, Text: string(p.Text), Hits: hits[i]}
	}
	return out
}

// matchInfoFrom converts a search.Match (1-based, record-local) into the
// variable package's MatchInfo for template/JS evaluation. patterns is the
// compiled pattern list Search was run against; pattern/pattern_name/
// pattern_len resolve via m.OrigIndex, not the reorderable PatternIndex.
func matchInfoFrom(m search.Match, patterns []*search.Pattern) *variable.MatchInfo {
	info := &variable.MatchInfo{
		PatternIndex:   m.PatternIndex,
		HitRank:        m.HitRank,
		Start:          m.Start,
		End:            m.End,
		Diffs:          m.Diffs,
		Ins:            m.Ins,
		Del:            m.Del,
		Subst:          m.Subst,
		AlignedPattern: m.AlignedPattern,
		AlignedMatch:   m.AlignedMatch,
		Groups:         m.RegexGroups,
		GroupStarts:    m.GroupStarts,
		GroupEnds:      m.GroupEnds,
	}
	if m.OrigIndex >= 0 && m.OrigIndex < len(patterns) {
		p := patterns[m.OrigIndex]
		info.PatternText = string(p.Text)
		info.PatternName = p.Name
		info.PatternLen = len(p.Text)
	}
	return info
}
