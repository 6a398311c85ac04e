package extsort

import (
	"bytes"
	"container/heap"
	"io"
)

// mergeSource is one input to the k-way merge: either a spill file on disk
// or the in-memory residual (the entries still held after the last spill,
// never written out). All batches (zero or more spill files plus the
// in-memory residual) are merged via a min-heap k-way merge; the heap
// stores one head element per batch.
type mergeSource struct {
	reader *spillReader // nil for the in-memory residual
	memory []Entry
	memPos int
}

func (s *mergeSource) next() (key, record []byte, ok bool, err error) {
	if s.reader != nil {
		e, err := s.reader.next()
		if err == io.EOF {
			return nil, nil, false, nil
		}
		if err != nil {
			return nil, nil, false, err
		}
		return e.key, e.record, true, nil
	}
	if s.memPos >= len(s.memory) {
		return nil, nil, false, nil
	}
	e := s.memory[s.memPos]
	s.memPos++
	return Encode(e.Key), e.RecordBytes, true, nil
}

type heapItem struct {
	key, record []byte
	src         int
}

type mergeHeap struct {
	items   []heapItem
	reverse bool
}

func (h *mergeHeap) Len() int { return len(h.items) }
func (h *mergeHeap) Less(i, j int) bool {
	c := bytes.Compare(h.items[i].key, h.items[j].key)
	if h.reverse {
		return c > 0
	}
	return c < 0
}
func (h *mergeHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *mergeHeap) Push(x interface{}) { h.items = append(h.items, x.(heapItem)) }
func (h *mergeHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// Merger performs the k-way merge across every mergeSource, yielding
// (key, record) pairs in sorted order via Next.
type Merger struct {
	sources []*mergeSource
	h       *mergeHeap
}

func newMerger(sources []*mergeSource, reverse bool) (*Merger, error) {
	m := &Merger{sources: sources, h: &mergeHeap{reverse: reverse}}
	heap.Init(m.h)
	for i, s := range sources {
		key, rec, ok, err := s.next()
		if err != nil {
			return nil, err
		}
		if ok {
			heap.Push(m.h, heapItem{key: key, record: rec, src: i})
		}
	}
	return m, nil
}

// Next returns the next (key, record) pair in order, or ok == false once
// every source is exhausted.
func (m *Merger) Next() (key, record []byte, ok bool, err error) {
	if m.h.Len() == 0 {
		return nil, nil, false, nil
	}
	top := heap.Pop(m.h).(heapItem)
	nextKey, nextRec, hasNext, nerr := m.sources[top.src].next()
	if nerr != nil {
		return nil, nil, false, nerr
	}
	if hasNext {
		heap.Push(m.h, heapItem{key: nextKey, record: nextRec, src: top.src})
	}
	return top.key, top.record, true, nil
}
