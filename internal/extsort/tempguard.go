package extsort

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// TempGuard tracks every spill file created during a run and removes them
// all on Close, so a sort/unique invocation never leaks temp files whether
// it finishes normally, errors out, or the process panics.
type TempGuard struct {
	dir   string
	mu    sync.Mutex
	paths []string
	seq   int64
	pid   int
	limit int
}

// NewTempGuard creates a guard rooted at dir (the OS temp dir if empty)
// enforcing limit simultaneously-open spill files (0 = unlimited). Spill
// files are named "st-sort-<pid>-<seq>.tmp".
func NewTempGuard(dir string, limit int) *TempGuard {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempGuard{dir: dir, pid: os.Getpid(), limit: limit}
}

// NewFile allocates a new, unique spill file path and registers it for
// cleanup, failing with an actionable message if this would exceed
// --temp-file-limit (exceeding it is a fatal error with a
// clear message advising --max-mem increase).
func (g *TempGuard) NewFile() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.limit > 0 && len(g.paths) >= g.limit {
		return "", fmt.Errorf("exceeded --temp-file-limit (%d) spill files; increase --max-mem to reduce spilling", g.limit)
	}
	seq := atomic.AddInt64(&g.seq, 1)
	path := filepath.Join(g.dir, fmt.Sprintf("st-sort-%d-%d.tmp", g.pid, seq))
	g.paths = append(g.paths, path)
	return path, nil
}

// Close removes every spill file this guard created. Safe to call multiple
// times and from a deferred recover() handler after a panic.
func (g *TempGuard) Close() {
	g.mu.Lock()
	paths := g.paths
	g.paths = nil
	g.mu.Unlock()
	for _, p := range paths {
		os.Remove(p)
	}
}
