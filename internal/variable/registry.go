package variable

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bebop/seqtool/internal/header"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/sequtil"
)

// ID is the sealed enum of standard variable names. A template compiles
// each bare-variable reference down to an ID (plus any argument, e.g.
// the key in attr(key)) once, at compile time, so the per-record path
// never does name-keyed lookups.
type ID int

const (
	IDUnknown ID = iota
	IDID
	IDDesc
	IDSeq
	IDUpperSeq
	IDLowerSeq
	IDSeqLen
	IDUngappedSeqLen
	IDGC
	IDGCPercent
	IDCharCount
	IDExpErr
	IDSeqRevcomp
	IDSeqHash
	IDSeqHashRev
	IDSeqHashMin
	IDPath
	IDFilename
	IDFilestem
	IDExtension
	IDDirname
	IDDefaultExt
	IDSeqNum
	IDSeqIdx
	IDAttr
	IDOptAttr
	IDAttrDel
	IDOptAttrDel
	IDHasAttr
	IDMeta
	IDOptMeta
	IDHasMeta
	IDNum
	IDBin
	IDMatchIndex
	IDMatchRank
	IDMatchStart
	IDMatchEnd
	IDMatchDiffs
	IDMatchIns
	IDMatchDel
	IDMatchSubst
	IDMatchAligned
	IDMatchAlignedPattern
	IDMatchGroup
	IDMatchRange
	IDMatchDiffRate
	IDPattern
	IDPatternName
	IDPatternLen
	IDMatchGrpStart
	IDMatchGrpEnd
	IDMatchGrpRange
	IDMatchNegStart
	IDMatchNegEnd
	IDMatchNegRange
	IDKey
	IDNDuplicates
	IDDuplicatesList
)

// standardNames maps the literal template token to its ID. The accessors
// attr, meta, num, bin, match_group and their relatives are matched by
// exact name in Lookup's switch below; an argument given to a name in this
// map (e.g. charcount(chars)) is kept on the Handle as well.
var standardNames = map[string]ID{
	"id":               IDID,
	"desc":             IDDesc,
	"seq":              IDSeq,
	"upper_seq":        IDUpperSeq,
	"lower_seq":        IDLowerSeq,
	"seqlen":           IDSeqLen,
	"ungapped_seqlen":  IDUngappedSeqLen,
	"gc":               IDGC,
	"gc_percent":       IDGCPercent,
	"charcount":        IDCharCount,
	"exp_err":          IDExpErr,
	"seq_revcomp":      IDSeqRevcomp,
	"seqhash":          IDSeqHash,
	"seqhash_rev":      IDSeqHashRev,
	"seqhash_min":      IDSeqHashMin,
	"path":             IDPath,
	"filename":         IDFilename,
	"filestem":         IDFilestem,
	"extension":        IDExtension,
	"dirname":          IDDirname,
	"default_ext":      IDDefaultExt,
	"seq_num":          IDSeqNum,
	"seq_idx":          IDSeqIdx,
	"has_attr":         IDHasAttr,
	"has_meta":         IDHasMeta,
	"match_index":      IDMatchIndex,
	"match_rank":       IDMatchRank,
	"match_start":      IDMatchStart,
	"match_end":        IDMatchEnd,
	"match_diffs":      IDMatchDiffs,
	"match_ins":        IDMatchIns,
	"match_del":        IDMatchDel,
	"match_subst":      IDMatchSubst,
	"match_aligned":    IDMatchAligned,
	"match_aligned_pattern": IDMatchAlignedPattern,
	"match_range":      IDMatchRange,
	"match_diff_rate":  IDMatchDiffRate,
	"pattern":          IDPattern,
	"pattern_name":     IDPatternName,
	"pattern_len":      IDPatternLen,
	"match_neg_start":  IDMatchNegStart,
	"match_neg_end":    IDMatchNegEnd,
	"match_neg_range":  IDMatchNegRange,
	"key":              IDKey,
	"n_duplicates":     IDNDuplicates,
	"duplicates_list":  IDDuplicatesList,
}

// Handle is a compiled reference to a variable: an ID plus whatever
// argument it was invoked with (attr/meta key, bin precision, match group
// index). Template compilation resolves every `{name}` or `{name(arg)}`
// token to one Handle.
type Handle struct {
	ID   ID
	Name string
	Arg  string
}

// Lookup resolves a bare token (the text between `{` and `}`, already split
// from any argument list) to a Handle. ok is false for unrecognized names,
// which the template compiler treats as a parse error: an unrecognized
// bare variable name is a compile-time error.
func Lookup(name, arg string) (Handle, bool) {
	name = strings.TrimSpace(name)
	switch {
	case name == "attr":
		return Handle{ID: IDAttr, Name: name, Arg: arg}, true
	case name == "opt_attr":
		return Handle{ID: IDOptAttr, Name: name, Arg: arg}, true
	case name == "attr_del":
		return Handle{ID: IDAttrDel, Name: name, Arg: arg}, true
	case name == "opt_attr_del":
		return Handle{ID: IDOptAttrDel, Name: name, Arg: arg}, true
	case name == "meta":
		return Handle{ID: IDMeta, Name: name, Arg: arg}, true
	case name == "opt_meta":
		return Handle{ID: IDOptMeta, Name: name, Arg: arg}, true
	case name == "num":
		return Handle{ID: IDNum, Name: name, Arg: arg}, true
	case name == "bin":
		return Handle{ID: IDBin, Name: name, Arg: arg}, true
	case name == "match_group":
		return Handle{ID: IDMatchGroup, Name: name, Arg: arg}, true
	case name == "match_grp_start":
		return Handle{ID: IDMatchGrpStart, Name: name, Arg: arg}, true
	case name == "match_grp_end":
		return Handle{ID: IDMatchGrpEnd, Name: name, Arg: arg}, true
	case name == "match_grp_range":
		return Handle{ID: IDMatchGrpRange, Name: name, Arg: arg}, true
	}
	id, ok := standardNames[name]
	if !ok {
		return Handle{}, false
	}
	return Handle{ID: id, Name: name, Arg: arg}, true
}

// Context carries everything a single record evaluation needs to resolve
// every standard variable: the record itself, its sequence-number/index,
// the file it came from, attribute/meta accessors, and (when a search
// command is driving the pipeline) the current match. A new Context is
// built for each record.
type Context struct {
	Rec       *record.Record
	SeqNum    int64
	SeqIdx    int64
	FilePath  string
	DefaultExt string
	AttrFmt   header.Format

	Meta       MetaLookup
	Match      *MatchInfo
	BinDigits  int

	// Key, NDuplicates and DuplicatesList carry the unique command's
	// post-dedup summary for the record currently being rendered; unset
	// (zero value) for every other command.
	Key            string
	NDuplicates    int64
	DuplicatesList []string
}

// MetaLookup abstracts the metadata joiner so this package does not
// import internal/meta; *meta.Joiner satisfies it.
type MetaLookup interface {
	Lookup(id string) (fields []string, ok bool)
}

// MetaColumns is an optional extension of MetaLookup for joiners built
// from a header row: it resolves a header name to the zero-based field
// index lookupMeta needs for non-numeric meta() arguments. A MetaLookup
// that doesn't implement it (no header) simply can't resolve names.
type MetaColumns interface {
	ColumnIndex(name string) (int, bool)
}

// MatchInfo carries the command-local match_* variables populated by the
// search engine while driving a record through a template.
type MatchInfo struct {
	PatternIndex int
	HitRank      int
	Start, End   int
	Diffs, Ins, Del, Subst int
	AlignedPattern, AlignedMatch string
	Groups       []string

	// GroupStarts/GroupEnds hold 1-based inclusive positions for each entry
	// in Groups, populated only for regex matches; nil for exact/myers hits.
	GroupStarts, GroupEnds []int

	// PatternText/PatternName/PatternLen describe the pattern that produced
	// this hit, resolved via the match's OrigIndex rather than its
	// (per-record, reorderable) PatternIndex.
	PatternText string
	PatternName string
	PatternLen  int
}

// Resolve evaluates handle against ctx, producing a Value. Errors are
// returned for the non-opt accessors (attr, attr_del, meta) hitting a
// missing key and for num/bin used as bare variables (they only work
// inside a JS expression); everything else degrades to Undefined.
func (ctx *Context) Resolve(h Handle) (Value, error) {
	switch h.ID {
	case IDID:
		return Text(string(ctx.Rec.ID)), nil
	case IDDesc:
		return Text(string(ctx.Rec.Desc)), nil
	case IDSeq:
		return Text(string(ctx.Rec.Joined())), nil
	case IDUpperSeq:
		return Text(strings.ToUpper(string(ctx.Rec.Joined()))), nil
	case IDLowerSeq:
		return Text(strings.ToLower(string(ctx.Rec.Joined()))), nil
	case IDSeqLen:
		return Int(int64(ctx.Rec.Len())), nil
	case IDUngappedSeqLen:
		return Int(int64(sequtil.UngappedLen(ctx.Rec.Joined()))), nil
	case IDGC:
		return Int(int64(sequtil.GCCount(ctx.Rec.Joined()))), nil
	case IDGCPercent:
		return Float(sequtil.GCPercent(ctx.Rec.Joined())), nil
	case IDCharCount:
		if h.Arg == "" {
			return Undefined(), nil
		}
		return Int(int64(sequtil.CharCount(ctx.Rec.Joined(), h.Arg))), nil
	case IDExpErr:
		return Float(sequtil.ExpectedError(ctx.Rec.Qual)), nil
	case IDSeqRevcomp:
		return Text(string(sequtil.ReverseComplement(ctx.Rec.Joined()))), nil
	case IDSeqHash:
		return Int(int64(sequtil.SeqHash(ctx.Rec.Joined()))), nil
	case IDSeqHashRev:
		return Int(int64(sequtil.SeqHashRev(ctx.Rec.Joined()))), nil
	case IDSeqHashMin:
		return Int(int64(sequtil.SeqHashMin(ctx.Rec.Joined()))), nil
	case IDPath:
		return Text(ctx.FilePath), nil
	case IDFilename:
		return Text(filepath.Base(ctx.FilePath)), nil
	case IDFilestem:
		base := filepath.Base(ctx.FilePath)
		return Text(strings.TrimSuffix(base, filepath.Ext(base))), nil
	case IDExtension:
		return Text(strings.TrimPrefix(filepath.Ext(ctx.FilePath), ".")), nil
	case IDDirname:
		return Text(filepath.Dir(ctx.FilePath)), nil
	case IDDefaultExt:
		return Text(ctx.DefaultExt), nil
	case IDSeqNum:
		return Int(ctx.SeqNum), nil
	case IDSeqIdx:
		return Int(ctx.SeqIdx), nil
	case IDAttr:
		v, ok := ctx.lookupAttr(h.Arg)
		if !ok {
			return Undefined(), &ErrMissing{What: fmt.Sprintf("attribute %q", h.Arg)}
		}
		return Text(v), nil
	case IDOptAttr:
		v, ok := ctx.lookupAttr(h.Arg)
		if !ok {
			return Undefined(), nil
		}
		return Text(v), nil
	case IDAttrDel, IDOptAttrDel:
		// Resolves to the attribute's value exactly like attr/opt_attr; the
		// attribute is not removed from the header.
		v, ok := ctx.lookupAttr(h.Arg)
		if !ok {
			if h.ID == IDAttrDel {
				return Undefined(), &ErrMissing{What: fmt.Sprintf("attribute %q", h.Arg)}
			}
			return Undefined(), nil
		}
		return Text(v), nil
	case IDHasAttr:
		_, ok := ctx.lookupAttr(h.Arg)
		return Bool(ok), nil
	case IDMeta:
		v, ok := ctx.lookupMeta(h.Arg)
		if !ok {
			return Undefined(), &ErrMissing{What: fmt.Sprintf("meta field %q for id %q", h.Arg, string(ctx.Rec.ID))}
		}
		return Text(v), nil
	case IDOptMeta:
		v, ok := ctx.lookupMeta(h.Arg)
		if !ok {
			return Undefined(), nil
		}
		return Text(v), nil
	case IDHasMeta:
		if ctx.Meta == nil {
			return Bool(false), nil
		}
		_, ok := ctx.Meta.Lookup(string(ctx.Rec.ID))
		return Bool(ok), nil
	case IDNum:
		return Undefined(), fmt.Errorf("num() must be evaluated against an operand inside a JS expression")
	case IDBin:
		return Undefined(), fmt.Errorf("bin() must be evaluated against an operand inside a JS expression")
	case IDKey:
		return Text(ctx.Key), nil
	case IDNDuplicates:
		return Int(ctx.NDuplicates), nil
	case IDDuplicatesList:
		return Text(strings.Join(ctx.DuplicatesList, ",")), nil
	default:
		return ctx.resolveMatch(h)
	}
}

func (ctx *Context) lookupAttr(key string) (string, bool) {
	segment := ctx.Rec.ID
	if ctx.AttrFmt.InDescription() {
		// Scan Desc as it follows HeaderBytes' joining space, so an
		// attribute at the very start of Desc is found too.
		segment = append([]byte(" "), ctx.Rec.Desc...)
	}
	return header.Get(segment, ctx.AttrFmt, key)
}

// lookupMeta resolves field, a meta()/opt_meta() argument, against the
// metadata row joined to the current record. field may be a 1-based
// column number or a header name (when the metadata file carries a
// header and the joiner can resolve names via MetaColumns); a numeric
// field is tried first since header names are never purely numeric.
func (ctx *Context) lookupMeta(field string) (string, bool) {
	if ctx.Meta == nil {
		return "", false
	}
	fields, ok := ctx.Meta.Lookup(string(ctx.Rec.ID))
	if !ok {
		return "", false
	}
	if oneBased, err := strconv.Atoi(field); err == nil {
		idx := oneBased - 1
		if idx < 0 || idx >= len(fields) {
			return "", false
		}
		return fields[idx], true
	}
	if cols, ok := ctx.Meta.(MetaColumns); ok {
		if idx, ok := cols.ColumnIndex(field); ok && idx >= 0 && idx < len(fields) {
			return fields[idx], true
		}
	}
	return "", false
}

func (ctx *Context) resolveMatch(h Handle) (Value, error) {
	if ctx.Match == nil {
		return Undefined(), nil
	}
	m := ctx.Match
	switch h.ID {
	case IDMatchIndex:
		return Int(int64(m.PatternIndex)), nil
	case IDMatchRank:
		return Int(int64(m.HitRank)), nil
	case IDMatchStart:
		return Int(int64(m.Start)), nil
	case IDMatchEnd:
		return Int(int64(m.End)), nil
	case IDMatchDiffs:
		return Int(int64(m.Diffs)), nil
	case IDMatchIns:
		return Int(int64(m.Ins)), nil
	case IDMatchDel:
		return Int(int64(m.Del)), nil
	case IDMatchSubst:
		return Int(int64(m.Subst)), nil
	case IDMatchAligned:
		return Text(m.AlignedMatch), nil
	case IDMatchAlignedPattern:
		return Text(m.AlignedPattern), nil
	case IDMatchGroup:
		idx, err := strconv.Atoi(h.Arg)
		if err != nil || idx < 0 || idx >= len(m.Groups) {
			return Undefined(), nil
		}
		return Text(m.Groups[idx]), nil
	case IDMatchRange:
		return Text(fmt.Sprintf("%d:%d", m.Start, m.End)), nil
	case IDMatchDiffRate:
		if m.PatternLen == 0 {
			return Undefined(), nil
		}
		return Float(float64(m.Diffs) / float64(m.PatternLen)), nil
	case IDPattern:
		return Text(m.PatternText), nil
	case IDPatternName:
		return Text(m.PatternName), nil
	case IDPatternLen:
		return Int(int64(m.PatternLen)), nil
	case IDMatchGrpStart:
		idx, err := strconv.Atoi(h.Arg)
		if err != nil || idx < 0 || idx >= len(m.GroupStarts) {
			return Undefined(), nil
		}
		return Int(int64(m.GroupStarts[idx])), nil
	case IDMatchGrpEnd:
		idx, err := strconv.Atoi(h.Arg)
		if err != nil || idx < 0 || idx >= len(m.GroupEnds) {
			return Undefined(), nil
		}
		return Int(int64(m.GroupEnds[idx])), nil
	case IDMatchGrpRange:
		idx, err := strconv.Atoi(h.Arg)
		if err != nil || idx < 0 || idx >= len(m.GroupStarts) || idx >= len(m.GroupEnds) {
			return Undefined(), nil
		}
		return Text(fmt.Sprintf("%d:%d", m.GroupStarts[idx], m.GroupEnds[idx])), nil
	case IDMatchNegStart:
		return Int(int64(m.Start - ctx.Rec.Len() - 1)), nil
	case IDMatchNegEnd:
		return Int(int64(m.End - ctx.Rec.Len() - 1)), nil
	case IDMatchNegRange:
		seqLen := ctx.Rec.Len()
		return Text(fmt.Sprintf("%d:%d", m.Start-seqLen-1, m.End-seqLen-1)), nil
	default:
		return Undefined(), fmt.Errorf("unresolved variable %q", h.Name)
	}
}

// Bin rounds f to six decimal places and returns it as a Value so
// templates using bin(expr, ...) get a stable textual form for grouping.
func Bin(f float64) Value {
	scaled := strconv.FormatFloat(f, 'f', 6, 64)
	return Text(scaled)
}
