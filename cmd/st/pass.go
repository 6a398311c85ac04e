package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/pipeline"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/variable"
)

// passCommand is the pass-through subcommand: read, optionally reformat,
// write. "." is its alias, a bare-dot shorthand for the identity command.
func passCommand() *cli.Command {
	return &cli.Command{
		Name:    "pass",
		Aliases: []string{"."},
		Usage:   "pass records through unchanged, optionally converting format",
		Flags:   metaFlags(),
		Action: func(c *cli.Context) error {
			return runPipeline(c, record.DefaultFieldMap, func(ctx *variable.Context, rec *record.Record) (pipeline.Action, error) {
				return pipeline.ActionKeep, nil
			})
		},
	}
}
