package extsort

// Entry is one (key, record_bytes) pair held in memory before a possible
// spill. RecordBytes is an opaque, already-serialized record (the caller
// decides the wire format — typically the original input line/record
// bytes, so the merge output is a byte-for-byte passthrough of unsorted
// input).
type Entry struct {
	Key         Key
	RecordBytes []byte
}

// estimatedSize approximates the memory an Entry occupies: conservatively
// sum(len(key)+len(record_bytes)) plus a per-entry overhead for slice
// headers and GC bookkeeping.
const perEntryOverhead = 64 // slice headers, Key field slices, GC bookkeeping

func (e Entry) estimatedSize() int64 {
	n := int64(perEntryOverhead) + int64(len(e.RecordBytes))
	for _, f := range e.Key {
		n += int64(len(f.Text)) + 16
	}
	return n
}

// entrySlice adapts []Entry to sort.Interface (and, by the same method
// set, to twotwotwo/sorts.Quicksort's parallel drop-in replacement for
// sort.Sort). keys holds each entry's encoded key, computed once; Less
// itself compares the Key fields with Compare.
type entrySlice struct {
	entries []Entry
	keys    [][]byte
	reverse bool
}

func newEntrySlice(entries []Entry, reverse bool) *entrySlice {
	keys := make([][]byte, len(entries))
	for i, e := range entries {
		keys[i] = Encode(e.Key)
	}
	return &entrySlice{entries: entries, keys: keys, reverse: reverse}
}

func (s *entrySlice) Len() int { return len(s.entries) }

func (s *entrySlice) Less(i, j int) bool {
	c := Compare(s.entries[i].Key, s.entries[j].Key)
	if s.reverse {
		return c > 0
	}
	return c < 0
}

func (s *entrySlice) Swap(i, j int) {
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}
