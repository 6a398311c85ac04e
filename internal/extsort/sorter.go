package extsort

import (
	"fmt"
	"os"

	"github.com/twotwotwo/sorts"
)

// Sorter accumulates (key, record) pairs, spilling to disk under memory
// pressure, and produces a fully sorted stream once the input is
// exhausted. This is the engine behind the `sort` command.
type Sorter struct {
	maxMem   int64
	reverse  bool
	guard    *TempGuard
	entries  []Entry
	size     int64
	spillPaths []string
}

// NewSorter creates a Sorter with the given memory budget (bytes; 0
// disables spilling entirely) and temp-file policy.
func NewSorter(maxMem int64, reverse bool, guard *TempGuard) *Sorter {
	return &Sorter{maxMem: maxMem, reverse: reverse, guard: guard}
}

// Add appends one entry, spilling the accumulated batch to disk first if
// adding it would exceed the memory budget.
func (s *Sorter) Add(e Entry) error {
	if s.maxMem > 0 && s.size+e.estimatedSize() > s.maxMem && len(s.entries) > 0 {
		if err := s.spill(); err != nil {
			return err
		}
	}
	s.entries = append(s.entries, e)
	s.size += e.estimatedSize()
	return nil
}

func (s *Sorter) spill() error {
	sortInPlace(s.entries, s.reverse)
	path, err := s.guard.NewFile()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating spill file %s: %w", path, err)
	}
	if err := writeBatch(f, s.entries); err != nil {
		f.Close()
		return fmt.Errorf("writing spill file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing spill file %s: %w", path, err)
	}
	s.spillPaths = append(s.spillPaths, path)
	s.entries = nil
	s.size = 0
	return nil
}

// sortInPlace sorts entries using twotwotwo/sorts' parallel quicksort —
// the pack's convention (Schaudge-kmcp, shenwei356-unikmer) for sorting
// large in-memory slices rather than the single-threaded stdlib sort.Sort.
func sortInPlace(entries []Entry, reverse bool) {
	sorts.Quicksort(newEntrySlice(entries, reverse))
}

// Spilled reports whether any batch has been written to disk.
func (s *Sorter) Spilled() bool { return len(s.spillPaths) > 0 }

// Finish sorts the in-memory residual and returns a Merger that yields
// every (key, record) pair across all spill files and the residual, in
// sorted order.
func (s *Sorter) Finish() (*Merger, error) {
	sortInPlace(s.entries, s.reverse)
	sources := make([]*mergeSource, 0, len(s.spillPaths)+1)
	for _, p := range s.spillPaths {
		r, err := openSpillReader(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, &mergeSource{reader: r})
	}
	sources = append(sources, &mergeSource{memory: s.entries})
	return newMerger(sources, s.reverse)
}
