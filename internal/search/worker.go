package search

import "container/heap"

// Job is one unit of work dispatched to a search worker: a record's target
// bytes plus its position in the input stream, so results can be
// reassembled in order afterward.
type Job struct {
	Seq int64 // sequence number, assigned by the dispatcher in input order
	Target []byte
}

// Result pairs a Job's sequence number with its match set.
type Result struct {
	Seq     int64
	Matches []Match
}

// Pool runs N workers pulling jobs off a shared queue and searching each
// one against the same compiled Patterns (Patterns hold no per-search
// mutable state, so sharing the *Pattern values across workers is safe;
// only the Options must not be mutated concurrently). Each call to
// Search allocates its own DP matrices on the calling goroutine's stack
// or heap, so no additional per-worker state is needed beyond the
// immutable Pattern slice.
type Pool struct {
	patterns []*Pattern
	opts     Options
	jobs     chan Job
	results  chan Result
	done     chan struct{}
}

// NewPool starts n worker goroutines pulling from an internal job queue.
func NewPool(n int, patterns []*Pattern, opts Options) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		patterns: patterns,
		opts:     opts,
		jobs:     make(chan Job, n*4),
		results:  make(chan Result, n*4),
		done:     make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for job := range p.jobs {
		matches := Search(p.patterns, job.Target, p.opts)
		p.results <- Result{Seq: job.Seq, Matches: matches}
	}
}

// Submit enqueues a job; blocks if the queue is full, so a slow pool of
// workers applies backpressure to the reader feeding it rather than
// buffering unboundedly.
func (p *Pool) Submit(job Job) { p.jobs <- job }

// Close stops accepting new jobs. Callers must have submitted every job
// before calling Close, and must drain Reorder (or Results) until it
// signals completion.
func (p *Pool) Close() { close(p.jobs) }

// resultHeap orders buffered out-of-order results by sequence number so
// Reorder can emit them in strict input order.
type resultHeap []Result

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].Seq < h[j].Seq }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(Result)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Reorder drains n results from the pool's results channel (n must equal
// the number of jobs submitted) and calls emit once per sequence number
// in strict ascending order, restoring input order before the writer
// despite workers completing jobs out of order.
func Reorder(p *Pool, n int, emit func(Result)) {
	h := &resultHeap{}
	heap.Init(h)
	next := int64(0)
	received := 0
	for received < n {
		r := <-p.results
		received++
		heap.Push(h, r)
		for h.Len() > 0 && (*h)[0].Seq == next {
			item := heap.Pop(h).(Result)
			emit(item)
			next++
		}
	}
	for h.Len() > 0 {
		item := heap.Pop(h).(Result)
		emit(item)
	}
}
