package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/pipeline"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/search"
	"github.com/bebop/seqtool/internal/variable"
)

// replaceCommand searches every record and substitutes the best hit's
// matched region with a rendered template (variable interpolation, no
// `$1`-style backreferences).
func replaceCommand() *cli.Command {
	flags := append(append([]cli.Flag{
		&cli.StringFlag{Name: "rep", Required: true, Usage: "replacement template for the matched region"},
	}, searchFlags()...), metaFlags()...)

	return &cli.Command{
		Name:  "replace",
		Usage: "replace the best-matching hit's region with a template-rendered value",
		Flags: flags,
		Action: func(c *cli.Context) error {
			patterns, err := compilePatterns(c)
			if err != nil {
				return err
			}
			opts := searchOptionsFrom(c)
			on := c.String("on")
			host := variable.NewJSHost()
			repTmpl, err := compileTemplate(c.String("rep"), host)
			if err != nil {
				return fmt.Errorf("--rep template: %w", err)
			}

			hits := make([]int64, len(patterns))
			body := func(ctx *variable.Context, rec *record.Record) (pipeline.Action, error) {
				target := targetOf(rec, on)
				matches := search.Search(patterns, target, opts)
				for _, mm := range matches {
					hits[mm.OrigIndex]++
				}
				if len(matches) == 0 {
					return pipeline.ActionKeep, nil
				}
				m := matches[0]
				ctx.Match = matchInfoFrom(m, patterns)
				rep, err := repTmpl.Render(ctx)
				if err != nil {
					return pipeline.ActionKeep, &pipeline.RecoverableError{Cause: err}
				}

				replaced := spliceReplace(target, m.Start-1, m.End, rep)
				switch on {
				case "id":
					rec.ID = replaced
				case "desc":
					rec.Desc = replaced
				default:
					rec.Seq = replaced
				}
				return pipeline.ActionKeep, nil
			}
			return runPipeline(c, record.DefaultFieldMap, body, func(r *pipeline.Report) {
				r.Patterns = patternStats(patterns, hits)
			})
		},
	}
}

// spliceReplace returns target with [start, end) replaced by rep.
func spliceReplace(target []byte, start, end int, rep string) []byte {
	out := make([]byte, 0, start+len(rep)+(len(target)-end))
	out = append(out, target[:start]...)
	out = append(out, []byte(rep)...)
	out = append(out, target[end:]...)
	return out
}
