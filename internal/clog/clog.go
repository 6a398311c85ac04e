/*
Package clog is the ambient logging wrapper every st subcommand shares:
`--verbose` progress lines and per-record warnings go through a single
`log.New(os.Stderr, "", 0)` logger, matching poly's own split
between `log.Fatal` for startup errors and `fmt.Fprintf(os.Stderr, ...)`
for everything else (poly/main.go's `run` and commands.go).
*/
package clog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger wraps a stdlib *log.Logger with a verbosity gate, so callers pay
// nothing for disabled Verbose lines beyond one boolean check.
type Logger struct {
	std     *log.Logger
	verbose bool
}

// New builds a Logger writing to w with no timestamp prefix (records
// already carry their own file/line context in every message this
// package emits).
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{std: log.New(w, "", 0), verbose: verbose}
}

// Default writes to os.Stderr, matching every subcommand's default.
func Default(verbose bool) *Logger { return New(os.Stderr, verbose) }

// Verbosef logs a progress/diagnostic line only when --verbose is set.
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.std.Printf(format, args...)
}

// Warnf logs a per-record recoverable-error warning unconditionally —
// these carry record-level context and are never gated by --verbose.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
		return
	}
	l.std.Printf(format, args...)
}

// Fatalf logs and exits 1, mirroring poly's `log.Fatal(err)` in `run`.
// The st commands do not call it: their fatal errors are returned to
// run in cmd/st/main.go, which prints them and exits 1.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	if l == nil {
		log.Fatalf(format, args...)
		return
	}
	l.std.Fatalf(format, args...)
}
