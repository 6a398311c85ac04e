package extsort

import (
	"fmt"
	"io"
	"strings"
)

// MapOutFormat selects the --map-out side-channel rendering layout.
type MapOutFormat int

const (
	MapOutLong MapOutFormat = iota
	MapOutLongStar
	MapOutWide
	MapOutWideComma
	MapOutWideKey
)

// summary is the per-key accumulator for Unique: one representative
// record plus how many times (and, optionally, which IDs) the key
// recurred.
type summary struct {
	key           Key
	representative []byte
	count         int
	ids           []string
}

// Uniquer implements the `unique` command's engine: maintain an
// insertion-ordered key -> summary map; when the memory budget is
// exceeded, fall back to sort-then-collapse, which also changes the
// visible output order to key-sorted (an intentional part of the
// contract once spilling kicks in, not a bug).
type Uniquer struct {
	maxMem    int64
	reverse   bool
	trackIDs  bool
	forceSort bool
	guard     *TempGuard

	order   []string // insertion order of keys, in-memory mode only
	byKey   map[string]*summary
	size    int64
	spilled bool

	sorter *Sorter // used once spilled
}

// NewUniquer creates an Uniquer. forceSort mirrors `-s/--sort`: output is
// always key-sorted even if the in-memory map never overflows.
func NewUniquer(maxMem int64, reverse, trackIDs, forceSort bool, guard *TempGuard) *Uniquer {
	return &Uniquer{
		maxMem:    maxMem,
		reverse:   reverse,
		trackIDs:  trackIDs,
		forceSort: forceSort,
		guard:     guard,
		byKey:     make(map[string]*summary),
	}
}

// Add records one (key, recordBytes, id) observation.
func (u *Uniquer) Add(key Key, recordBytes []byte, id string) error {
	if u.spilled {
		return u.addSpilled(key, recordBytes, id)
	}

	k := string(Encode(key))
	if s, ok := u.byKey[k]; ok {
		s.count++
		if u.trackIDs {
			s.ids = append(s.ids, id)
		}
		return nil
	}

	entrySize := int64(perEntryOverhead) + int64(len(recordBytes)) + int64(len(k))
	if u.maxMem > 0 && u.size+entrySize > u.maxMem && len(u.byKey) > 0 {
		if err := u.fallbackToSpill(); err != nil {
			return err
		}
		return u.addSpilled(key, recordBytes, id)
	}

	s := &summary{key: key, representative: recordBytes, count: 1}
	if u.trackIDs {
		s.ids = []string{id}
	}
	u.byKey[k] = s
	u.order = append(u.order, k)
	u.size += entrySize
	return nil
}

// fallbackToSpill drains the current in-memory map into a fresh Sorter and
// switches subsequent Add calls to spill mode.
func (u *Uniquer) fallbackToSpill() error {
	u.sorter = NewSorter(u.maxMem, u.reverse, u.guard)
	for _, k := range u.order {
		s := u.byKey[k]
		if err := u.sorter.Add(Entry{Key: s.key, RecordBytes: encodeSummary(s)}); err != nil {
			return err
		}
	}
	u.byKey = nil
	u.order = nil
	u.spilled = true
	return nil
}

func (u *Uniquer) addSpilled(key Key, recordBytes []byte, id string) error {
	s := &summary{key: key, representative: recordBytes, count: 1}
	if u.trackIDs {
		s.ids = []string{id}
	}
	return u.sorter.Add(Entry{Key: key, RecordBytes: encodeSummary(s)})
}

// encodeSummary/decodeSummary give the spilled path a stable wire form for
// one summary: count, then representative length + bytes, then each ID
// length-prefixed. Spilled mode never merges duplicate keys on the way
// in — that collapsing happens in Finish's streaming pass, which
// collapses consecutive identical keys once the merge has made them
// adjacent.
func encodeSummary(s *summary) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n%d\n", s.count, len(s.representative))
	b.Write(s.representative)
	fmt.Fprintf(&b, "\n%d\n", len(s.ids))
	for _, id := range s.ids {
		fmt.Fprintf(&b, "%d\n%s\n", len(id), id)
	}
	return []byte(b.String())
}

// UniqueResult is one collapsed key's final output.
type UniqueResult struct {
	Key            Key
	Representative []byte
	Count          int
	IDs            []string
}

// Finish drains the Uniquer, yielding results via emit. In-memory mode
// preserves first-occurrence order; spilled mode yields key-sorted output
// (and here is where consecutive identical keys — guaranteed adjacent by
// the preceding sort — are collapsed back into one UniqueResult, summing
// counts and concatenating ID lists).
func (u *Uniquer) Finish(emit func(UniqueResult) error) error {
	if !u.spilled && !u.forceSort {
		for _, k := range u.order {
			s := u.byKey[k]
			if err := emit(UniqueResult{Key: s.key, Representative: s.representative, Count: s.count, IDs: s.ids}); err != nil {
				return err
			}
		}
		return nil
	}
	if !u.spilled && u.forceSort {
		// Small enough to stay in memory, but -s/--sort requests key order.
		u.sorter = NewSorter(0, u.reverse, u.guard)
		for _, k := range u.order {
			s := u.byKey[k]
			if err := u.sorter.Add(Entry{Key: s.key, RecordBytes: encodeSummary(s)}); err != nil {
				return err
			}
		}
	}

	merger, err := u.sorter.Finish()
	if err != nil {
		return err
	}
	var pending *UniqueResult
	for {
		keyBytes, recBytes, ok, err := merger.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		count, rep, ids, err := decodeSummary(recBytes)
		if err != nil {
			return err
		}
		if pending != nil && string(Encode(pending.Key)) == string(keyBytes) {
			pending.Count += count
			pending.IDs = append(pending.IDs, ids...)
			continue
		}
		if pending != nil {
			if err := emit(*pending); err != nil {
				return err
			}
		}
		pending = &UniqueResult{Key: keyFromBytes(keyBytes), Representative: rep, Count: count, IDs: ids}
	}
	if pending != nil {
		return emit(*pending)
	}
	return nil
}

func keyFromBytes(b []byte) Key {
	return Key{{Text: string(b)}}
}

func decodeSummary(b []byte) (count int, rep []byte, ids []string, err error) {
	r := &lineReader{buf: b}
	count, err = r.readInt()
	if err != nil {
		return 0, nil, nil, err
	}
	repLen, err := r.readInt()
	if err != nil {
		return 0, nil, nil, err
	}
	rep, err = r.readBytes(repLen)
	if err != nil {
		return 0, nil, nil, err
	}
	if err := r.skipNewline(); err != nil {
		return 0, nil, nil, err
	}
	nIDs, err := r.readInt()
	if err != nil {
		return 0, nil, nil, err
	}
	ids = make([]string, 0, nIDs)
	for i := 0; i < nIDs; i++ {
		idLen, err := r.readInt()
		if err != nil {
			return 0, nil, nil, err
		}
		idBytes, err := r.readBytes(idLen)
		if err != nil {
			return 0, nil, nil, err
		}
		if err := r.skipNewline(); err != nil {
			return 0, nil, nil, err
		}
		ids = append(ids, string(idBytes))
	}
	return count, rep, ids, nil
}

// lineReader is a tiny cursor over encodeSummary's wire format.
type lineReader struct {
	buf []byte
	pos int
}

func (r *lineReader) readInt() (int, error) {
	start := r.pos
	for r.pos < len(r.buf) && r.buf[r.pos] != '\n' {
		r.pos++
	}
	if r.pos >= len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	s := string(r.buf[start:r.pos])
	r.pos++ // skip newline
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func (r *lineReader) readBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *lineReader) skipNewline() error {
	if r.pos >= len(r.buf) || r.buf[r.pos] != '\n' {
		return fmt.Errorf("malformed summary record at byte %d", r.pos)
	}
	r.pos++
	return nil
}

// RenderMapOut writes the --map-out side channel for one UniqueResult in
// the requested format.
func RenderMapOut(w io.Writer, repID string, r UniqueResult, format MapOutFormat) error {
	switch format {
	case MapOutLong:
		for _, id := range r.IDs {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", id, repID); err != nil {
				return err
			}
		}
	case MapOutLongStar:
		if _, err := fmt.Fprintf(w, "%s\t*\n", repID); err != nil {
			return err
		}
		for _, id := range r.IDs {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", id, repID); err != nil {
				return err
			}
		}
	case MapOutWide:
		if _, err := fmt.Fprintf(w, "%s\t%s\n", repID, strings.Join(r.IDs, "\t")); err != nil {
			return err
		}
	case MapOutWideComma:
		if _, err := fmt.Fprintf(w, "%s\t%s\n", repID, strings.Join(r.IDs, ",")); err != nil {
			return err
		}
	case MapOutWideKey:
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.Key.String(), repID, strings.Join(r.IDs, ",")); err != nil {
			return err
		}
	}
	return nil
}
