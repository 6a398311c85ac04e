package main

import (
	"errors"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/clog"
	"github.com/bebop/seqtool/internal/extsort"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/variable"
)

// defaultSortMem is the in-memory budget before sort/unique starts
// spilling to disk, absent an explicit --max-mem.
const defaultSortMem = 256 << 20 // 256 MiB

// keySpecFlags are the flags shared by sort and unique for compiling and
// tuning the external sort/merge engine.
func keySpecFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "k", Aliases: []string{"key"}, Required: true, Usage: "comma-separated variable names forming the sort/unique key, e.g. \"seqlen,id\""},
		&cli.BoolFlag{Name: "reverse", Usage: "reverse the key ordering"},
		&cli.Int64Flag{Name: "max-mem", Value: defaultSortMem, Usage: "in-memory budget in bytes before spilling to disk (0 disables spilling)"},
		&cli.IntFlag{Name: "temp-file-limit", Usage: "maximum simultaneous spill files (0 = unlimited)"},
	}
}

// accumulator drains every input record, resolving keySpec and serializing
// each record through the resolved output format exactly once, then hands
// the (key, bytes, id) triple to add. sort and unique differ only in what
// add does once a record's key is known.
func accumulator(c *cli.Context, cfg *config, spec keySpec, format record.Format, sep byte, add func(key extsort.Key, recBytes []byte, id string) error) error {
	readers, err := openReaders(c, cfg)
	if err != nil {
		return err
	}
	log := clog.Default(cfg.verbose)
	defaultExt := defaultExtFor(c.Args().Slice())

	var meta variable.MetaLookup
	if mp := c.String("meta"); mp != "" {
		j, err := loadMeta(c, mp)
		if err != nil {
			return err
		}
		meta = j
	}

	var seqNum int64
	for _, r := range readers {
		var seqIdx int64
		for {
			rec, readErr := r.Next()
			if readErr != nil && !errors.Is(readErr, io.EOF) {
				return readErr
			}
			if rec == nil {
				break
			}
			seqNum++
			seqIdx++
			rec = rec.Clone()

			ctx := &variable.Context{
				Rec:        rec,
				SeqNum:     seqNum,
				SeqIdx:     seqIdx,
				FilePath:   r.Path(),
				DefaultExt: defaultExt,
				AttrFmt:    cfg.attrFmt,
				Meta:       meta,
			}
			key, err := spec.Resolve(ctx)
			if err != nil {
				return err
			}
			recBytes, err := serializeRecord(rec, format, sep, record.DefaultFieldMap, cfg.wrap)
			if err != nil {
				return err
			}
			if err := add(key, recBytes, string(rec.ID)); err != nil {
				return err
			}

			if errors.Is(readErr, io.EOF) {
				break
			}
		}
	}
	log.Verbosef("accumulated %d records for sort/unique", seqNum)
	return nil
}

// tempGuardFor builds the TempGuard a sort/unique invocation spills
// through, rooted at --temp-dir (or the OS temp dir) and bounded by
// --temp-file-limit.
func tempGuardFor(c *cli.Context, cfg *config) *extsort.TempGuard {
	return extsort.NewTempGuard(cfg.tempDir, c.Int("temp-file-limit"))
}
