package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/extsort"
	"github.com/bebop/seqtool/internal/pipeline"
)

// sortCommand sorts the whole input stream by a composite variable key,
// spilling to disk and merging once --max-mem is exceeded. Output is
// written as a passthrough of each record's already-serialized bytes, so
// the merge step never re-parses a record.
func sortCommand() *cli.Command {
	flags := append(keySpecFlags(), metaFlags()...)

	return &cli.Command{
		Name:  "sort",
		Usage: "sort records by a composite variable key, spilling to disk under memory pressure",
		Flags: flags,
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			keySpec, err := compileKeySpec(c.String("k"))
			if err != nil {
				return err
			}

			outPath := outputPath(c)
			format, sep, err := resolveOutputFormat(c, cfg, outPath)
			if err != nil {
				return err
			}

			guard := tempGuardFor(c, cfg)
			defer guard.Close()

			sorter := extsort.NewSorter(c.Int64("max-mem"), c.Bool("reverse"), guard)
			if err := accumulator(c, cfg, keySpec, format, sep, func(key extsort.Key, recBytes []byte, id string) error {
				return sorter.Add(extsort.Entry{Key: key, RecordBytes: recBytes})
			}); err != nil {
				return err
			}

			merger, err := sorter.Finish()
			if err != nil {
				return err
			}

			codec, _ := splitCodec(outPath)
			wc, err := openEncodeTarget(outPath, codec, cfg.appendMode)
			if err != nil {
				return err
			}
			report := pipeline.NewReport()
			writeErr := func() error {
				for {
					_, recBytes, ok, err := merger.Next()
					if err != nil {
						return err
					}
					if !ok {
						return nil
					}
					if _, err := wc.Write(recBytes); err != nil {
						return err
					}
					report.Total++
					report.Written++
				}
			}()
			if closeErr := wc.Close(); writeErr == nil {
				writeErr = closeErr
			}
			if writeErr != nil {
				return writeErr
			}
			if cfg.report {
				report.SortMode = "sort"
				return report.Emit(os.Stderr)
			}
			return nil
		},
	}
}
