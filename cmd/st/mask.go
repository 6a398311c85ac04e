package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/pipeline"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/rng"
	"github.com/bebop/seqtool/internal/variable"
)

// maskCommand applies one or more ranges independently to each record's
// sequence: soft masking (lowercase) by default, or hard masking (a literal
// replacement character) with --hard.
func maskCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "r", Required: true, Usage: "comma-separated start:end ranges, applied independently"},
		&cli.BoolFlag{Name: "zero-based", Usage: "interpret range bounds as zero-based, half-open"},
		&cli.BoolFlag{Name: "exclusive", Usage: "treat bounded ends as exclusive"},
		&cli.BoolFlag{Name: "hard", Usage: "hard-mask with --char instead of soft-masking (lowercase)"},
		&cli.StringFlag{Name: "char", Value: "N", Usage: "hard-mask replacement character"},
	}, metaFlags()...)

	return &cli.Command{
		Name:  "mask",
		Usage: "mask one or more ranges of a sequence, softly (lowercase) or hard (a fixed character)",
		Flags: flags,
		Action: func(c *cli.Context) error {
			ranges, err := parseRanges(c.String("r"), c.Bool("zero-based"), c.Bool("exclusive"))
			if err != nil {
				return err
			}
			maskChar := byte('N')
			if s := c.String("char"); len(s) > 0 {
				maskChar = s[0]
			}
			hard := c.Bool("hard")
			body := func(ctx *variable.Context, rec *record.Record) (pipeline.Action, error) {
				rec.Seq = rng.Mask(rec.Joined(), ranges, hard, maskChar)
				return pipeline.ActionKeep, nil
			}
			return runPipeline(c, record.DefaultFieldMap, body)
		},
	}
}
