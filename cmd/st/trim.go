package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/pipeline"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/rng"
	"github.com/bebop/seqtool/internal/variable"
)

// trimCommand slices and concatenates one or more ranges out of every
// record's sequence (and quality, when present): the `trim` half of the
// range engine, alongside mask.
func trimCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "r", Required: true, Usage: "comma-separated start:end ranges to concatenate"},
		&cli.BoolFlag{Name: "zero-based", Usage: "interpret range bounds as zero-based, half-open"},
		&cli.BoolFlag{Name: "exclusive", Usage: "treat bounded ends as exclusive"},
	}, metaFlags()...)

	return &cli.Command{
		Name:  "trim",
		Usage: "trim a sequence to one or more ranges, concatenated in order",
		Flags: flags,
		Action: func(c *cli.Context) error {
			ranges, err := parseRanges(c.String("r"), c.Bool("zero-based"), c.Bool("exclusive"))
			if err != nil {
				return err
			}
			body := func(ctx *variable.Context, rec *record.Record) (pipeline.Action, error) {
				rec.Seq = rng.Trim(rec.Joined(), ranges)
				if rec.Qual != nil {
					rec.Qual = rng.Trim(rec.Qual, ranges)
				}
				return pipeline.ActionKeep, nil
			}
			return runPipeline(c, record.DefaultFieldMap, body)
		},
	}
}
