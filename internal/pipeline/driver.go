/*
Package pipeline implements the shared per-command record loop: pull a
record from a reader, build a fresh evaluation context, invoke the command
body (which may mutate the record or request it be skipped or diverted),
and write the result back out — plus the `--dropped` side output,
`--report` JSON emission, and the recoverable-error taxonomy that lets a
body signal a non-fatal per-record problem without aborting the run.

Grounded on poly's poly/main.go `run`/`application` split (entry
point kept separate from the wiring so both are independently testable)
and bio.ManyToChannel's errgroup fan-in idiom, generalized here to the
single-reader record loop every subcommand shares.
*/
package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/bebop/seqtool/internal/clog"
	"github.com/bebop/seqtool/internal/header"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/variable"
)

// Action tells the driver what to do with a record after the command body
// has run.
type Action int

const (
	ActionKeep Action = iota
	ActionDrop
	ActionSkip
)

// Body is one command's per-record logic: inspect/mutate rec (and/or the
// evaluation context) and decide its fate. SeqNum, SeqIdx and FilePath are
// already populated on ctx before Body is called.
type Body func(ctx *variable.Context, rec *record.Record) (Action, error)

// Driver wraps one command invocation end to end.
type Driver struct {
	Readers   []*record.Reader
	Writer    record.Writer
	Dropped   record.Writer // nil if --dropped was not given
	AttrFmt   header.Format
	Meta      variable.MetaLookup
	DefaultExt string
	Log       *clog.Logger
	Report    *Report

	body Body
}

// New constructs a Driver; readers are consumed in order, one after
// another (its CLI takes multiple file arguments).
func New(readers []*record.Reader, w record.Writer, body Body) *Driver {
	return &Driver{Readers: readers, Writer: w, AttrFmt: header.DefaultFormat, body: body, Report: NewReport()}
}

// Run drives every reader to completion, in order, through the Body,
// leaving the writer(s) to be flushed and closed by the caller once Run
// returns without error.
func (d *Driver) Run() error {
	var seqNum int64
	for _, r := range d.Readers {
		var seqIdx int64
		for {
			rec, readErr := r.Next()
			if readErr != nil && !errors.Is(readErr, io.EOF) {
				return &FatalError{Stage: "read", Cause: fmt.Errorf("%s: %w", r.Path(), readErr)}
			}
			if rec == nil {
				break
			}
			seqNum++
			seqIdx++

			ctx := &variable.Context{
				Rec:        rec,
				SeqNum:     seqNum,
				SeqIdx:     seqIdx,
				FilePath:   r.Path(),
				DefaultExt: d.DefaultExt,
				AttrFmt:    d.AttrFmt,
				Meta:       d.Meta,
			}

			action, err := d.invokeBody(ctx, rec)
			if err != nil {
				return err
			}

			switch action {
			case ActionDrop:
				if d.Dropped != nil {
					if werr := d.Dropped.Write(rec); werr != nil {
						return &FatalError{Stage: "write-dropped", Cause: werr}
					}
				}
				d.Report.Dropped++
			case ActionSkip:
				d.Report.Skipped++
			default:
				if werr := d.Writer.Write(rec); werr != nil {
					return &FatalError{Stage: "write", Cause: werr}
				}
				d.Report.Written++
			}
			d.Report.Total++

			if errors.Is(readErr, io.EOF) {
				break
			}
		}
	}
	return nil
}

func (d *Driver) invokeBody(ctx *variable.Context, rec *record.Record) (Action, error) {
	if d.body == nil {
		return ActionKeep, nil
	}
	action, err := d.body(ctx, rec)
	if err == nil {
		return action, nil
	}
	var rec2 *RecoverableError
	if errors.As(err, &rec2) {
		d.Log.Warnf("record %d (%s): %v", ctx.SeqNum, string(rec.ID), rec2.Cause)
		d.Report.Errors++
		return ActionSkip, nil
	}
	return ActionKeep, &FatalError{Stage: "body", Cause: err}
}
