package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/pipeline"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/search"
	"github.com/bebop/seqtool/internal/variable"
)

// findCommand searches every record against one or more patterns, filtering
// (-f/-e) and/or annotating the header (-a/-A) with the best hit's match_*
// fields.
func findCommand() *cli.Command {
	flags := append(append(append([]cli.Flag{}, searchFlags()...), metaFlags()...), attrWriteFlags()...)

	return &cli.Command{
		Name:  "find",
		Usage: "search records for one or more patterns, filtering and/or annotating hits",
		Flags: flags,
		Action: func(c *cli.Context) error {
			patterns, err := compilePatterns(c)
			if err != nil {
				return err
			}
			opts := searchOptionsFrom(c)
			on := c.String("on")
			filterIn := c.Bool("f")
			filterOut := c.Bool("e")

			host := variable.NewJSHost()
			writes, err := compileAttrWrites(c, host)
			if err != nil {
				return err
			}

			hits := make([]int64, len(patterns))
			body := func(ctx *variable.Context, rec *record.Record) (pipeline.Action, error) {
				matches := search.Search(patterns, targetOf(rec, on), opts)
				hasHit := len(matches) > 0

				for _, m := range matches {
					hits[m.OrigIndex]++
				}

				if hasHit {
					ctx.Match = matchInfoFrom(matches[0], patterns)
				}

				if hasHit {
					if err := applyAttrWrites(ctx, rec, writes); err != nil {
						return pipeline.ActionKeep, &pipeline.RecoverableError{Cause: err}
					}
				}

				switch {
				case filterIn && !hasHit:
					return pipeline.ActionDrop, nil
				case filterOut && hasHit:
					return pipeline.ActionDrop, nil
				default:
					return pipeline.ActionKeep, nil
				}
			}
			return runPipeline(c, record.DefaultFieldMap, body, func(r *pipeline.Report) {
				r.Patterns = patternStats(patterns, hits)
			})
		},
	}
}
