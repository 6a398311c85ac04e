/*
Command st is a streaming command-line sequence processor: pass/trim/mask/
find/replace/sort/unique subcommands sharing one record pipeline, variable
interpolation engine, range engine, pattern-search engine, and external
sort/unique engine.

Structured after poly/main.go: main is kept separate from application() so
the app definition is independently testable, and run is kept separate
from main for the same reason.
*/
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/header"
)

func main() {
	run(os.Args)
}

func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func application() *cli.App {
	app := &cli.App{
		Name:  "st",
		Usage: "a streaming command-line sequence processor",

		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "override input format (fasta, fastq, csv, tsv)"},
			&cli.StringFlag{Name: "to", Usage: "override output format (fasta, fastq, csv, tsv)"},
			&cli.StringFlag{Name: "o", Usage: "output path (\"-\" for stdout, the default)"},
			&cli.IntFlag{Name: "t", Value: 1, Usage: "thread count (find and replace search on one goroutine whatever its value)"},
			&cli.BoolFlag{Name: "report", Usage: "emit a JSON summary to stderr at completion"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable progress and diagnostic messages"},
			&cli.StringFlag{Name: "dropped", Usage: "write filtered-out records to this path instead of discarding them"},
			&cli.StringFlag{Name: "temp-dir", Usage: "directory for sort/unique spill files (default: OS temp dir)"},
			&cli.IntFlag{Name: "wrap", Value: 70, Usage: "FASTA output line-wrap width (0 disables wrapping)"},
			&cli.BoolFlag{Name: "append", Usage: "append to an existing output file instead of truncating it"},
			&cli.StringFlag{Name: "attr-format", Usage: "header attribute template \"prefix,sep\" (default \" ,=\")"},
		},

		Before: func(c *cli.Context) error {
			cfg := &config{
				defaultFormat: os.Getenv("ST_FORMAT"),
				attrFmt:       header.DefaultFormat,
				threads:       c.Int("t"),
				verbose:       c.Bool("verbose"),
				report:        c.Bool("report"),
				droppedPath:   c.String("dropped"),
				tempDir:       c.String("temp-dir"),
				wrap:          c.Int("wrap"),
				appendMode:    c.Bool("append"),
			}
			if af := c.String("attr-format"); af != "" {
				f, err := parseAttrFormat(af)
				if err != nil {
					return err
				}
				cfg.attrFmt = f
			} else if af := os.Getenv("ST_ATTR_FORMAT"); af != "" {
				f, err := parseAttrFormat(af)
				if err != nil {
					return err
				}
				cfg.attrFmt = f
			}
			if cfg.threads < 1 {
				cfg.threads = 1
			}
			app := c.App
			if app.Metadata == nil {
				app.Metadata = map[string]interface{}{}
			}
			app.Metadata[configKey] = cfg
			return nil
		},

		Commands: []*cli.Command{
			passCommand(),
			trimCommand(),
			maskCommand(),
			findCommand(),
			replaceCommand(),
			sortCommand(),
			uniqueCommand(),
		},
	}
	return app
}

// parseAttrFormat parses "prefix,sep" (comma-separated, since either side
// may itself contain "=") into a header.Format.
func parseAttrFormat(s string) (header.Format, error) {
	parts := splitOnce(s, ',')
	if parts[1] == "" {
		return header.Format{}, fmt.Errorf("ST_ATTR_FORMAT/--attr-format %q must be \"prefix,sep\"", s)
	}
	return header.Format{Prefix: parts[0], Sep: parts[1]}, nil
}

func splitOnce(s string, sep byte) [2]string {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return [2]string{s[:i], s[i+1:]}
		}
	}
	return [2]string{s, ""}
}
