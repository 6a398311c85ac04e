package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/extsort"
	"github.com/bebop/seqtool/internal/pipeline"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/variable"
)

// uniqueCommand collapses records sharing a key down to one representative
// each, optionally emitting a --map-out side table of which input IDs
// collapsed into which representative, and optionally annotating the
// representative's header via -a/-A with key/n_duplicates/duplicates_list
// now that the collapse is known.
func uniqueCommand() *cli.Command {
	flags := append(append(append(keySpecFlags(), metaFlags()...), attrWriteFlags()...),
		&cli.BoolFlag{Name: "s", Aliases: []string{"sort"}, Usage: "always emit key-sorted output, even if the input never spills"},
		&cli.BoolFlag{Name: "ids", Usage: "track every collapsed record's ID, required for --map-out"},
		&cli.StringFlag{Name: "map-out", Usage: "write a duplicate-ID map to this path"},
		&cli.StringFlag{Name: "map-out-format", Value: "long", Usage: "map-out layout: long, long-star, wide, wide-comma, or wide-key"},
	)

	return &cli.Command{
		Name:  "unique",
		Usage: "collapse records sharing a key to one representative each",
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

			host := variable.NewJSHost()
			writes, err := compileAttrWrites(c, host)
			if err != nil {
				return err
			}

			trackIDs := c.Bool("ids")
			mapOutPath := c.String("map-out")
			if mapOutPath != "" || len(writes) > 0 {
				trackIDs = true
			}
			mapOutFormat, err := parseMapOutFormat(c.String("map-out-format"))
			if err != nil {
				return err
			}

			guard := tempGuardFor(c, cfg)
			defer guard.Close()

			uniquer := extsort.NewUniquer(c.Int64("max-mem"), c.Bool("reverse"), trackIDs, c.Bool("s"), guard)
			if err := accumulator(c, cfg, keySpec, format, sep, func(key extsort.Key, recBytes []byte, id string) error {
				return uniquer.Add(key, recBytes, id)
			}); err != nil {
				return err
			}

			codec, _ := splitCodec(outPath)
			wc, err := openEncodeTarget(outPath, codec, cfg.appendMode)
			if err != nil {
				return err
			}

			var mapOut *os.File
			if mapOutPath != "" {
				mapOut, err = os.Create(mapOutPath)
				if err != nil {
					wc.Close()
					return fmt.Errorf("creating --map-out file: %w", err)
				}
			}

			report := pipeline.NewReport()
			writeErr := uniquer.Finish(func(r extsort.UniqueResult) error {
				out := r.Representative
				if len(writes) > 0 {
					annotated, err := annotateUniqueResult(r, format, sep, cfg, writes)
					if err != nil {
						return err
					}
					out = annotated
				}
				if _, err := wc.Write(out); err != nil {
					return err
				}
				report.Total += int64(r.Count)
				report.Written++
				report.Duplicates += int64(r.Count - 1)
				if mapOut != nil {
					repID := ""
					if len(r.IDs) > 0 {
						repID = r.IDs[0]
					}
					return extsort.RenderMapOut(mapOut, repID, r, mapOutFormat)
				}
				return nil
			})

			if closeErr := wc.Close(); writeErr == nil {
				writeErr = closeErr
			}
			if mapOut != nil {
				if closeErr := mapOut.Close(); writeErr == nil {
					writeErr = closeErr
				}
			}
			if writeErr != nil {
				return writeErr
			}
			if cfg.report {
				report.SortMode = "unique"
				return report.Emit(os.Stderr)
			}
			return nil
		},
	}
}

// annotateUniqueResult re-parses a collapsed key's representative bytes
// (serialized by accumulator before the dedup outcome was known), renders
// every -a/-A write against a Context carrying the now-known key,
// n_duplicates and duplicates_list, and re-serializes the result. This is a
// retrofit onto accumulator's eager-serialization design, not a rework of
// it: only unique commands that request -a/-A pay the re-parse cost.
func annotateUniqueResult(r extsort.UniqueResult, format record.Format, sep byte, cfg *config, writes []attrWrite) ([]byte, error) {
	rec, err := deserializeRecord(r.Representative, format, sep)
	if err != nil {
		return nil, fmt.Errorf("re-parsing unique representative for attribute write: %w", err)
	}
	ctx := &variable.Context{
		Rec:            rec,
		AttrFmt:        cfg.attrFmt,
		Key:            r.Key.String(),
		NDuplicates:    int64(r.Count),
		DuplicatesList: r.IDs,
	}
	if err := applyAttrWrites(ctx, rec, writes); err != nil {
		return nil, err
	}
	return serializeRecord(rec, format, sep, record.DefaultFieldMap, cfg.wrap)
}

func parseMapOutFormat(s string) (extsort.MapOutFormat, error) {
	switch s {
	case "long":
		return extsort.MapOutLong, nil
	case "long-star":
		return extsort.MapOutLongStar, nil
	case "wide":
		return extsort.MapOutWide, nil
	case "wide-comma":
		return extsort.MapOutWideComma, nil
	case "wide-key":
		return extsort.MapOutWideKey, nil
	default:
		return 0, fmt.Errorf("unrecognized --map-out-format %q", s)
	}
}
