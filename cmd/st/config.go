package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/header"
	"github.com/bebop/seqtool/internal/record"
)

// config holds the resolved global settings every subcommand needs: the
// env-var/flag-resolved defaults from ST_FORMAT/ST_ATTR_FORMAT plus the
// flags declared directly on the root app. Stashed on cli.App.Metadata by
// Before, matching the place poly resolves its own default -i/-o
// values ahead of subcommand flag parsing.
type config struct {
	defaultFormat string // from ST_FORMAT, overridden per-command by --from/--to
	attrFmt       header.Format
	threads       int
	verbose       bool
	report        bool
	droppedPath   string
	tempDir       string
	wrap          int
	appendMode    bool
}

const configKey = "seqtool-config"

func configFrom(c *cli.Context) *config {
	return c.App.Metadata[configKey].(*config)
}

// outputPath returns -o's value, or "-" for stdout.
func outputPath(c *cli.Context) string {
	if p := c.String("o"); p != "" {
		return p
	}
	return "-"
}

// resolveOutputFormat honors --to/ST_FORMAT over extension-sniffing the
// output path.
func resolveOutputFormat(c *cli.Context, cfg *config, outPath string) (record.Format, byte, error) {
	fmtName := c.String("to")
	if fmtName == "" {
		fmtName = cfg.defaultFormat
	}
	if fmtName != "" {
		return parseFormatOverride(fmtName)
	}
	format, sep, _ := sniffFormat(outPath)
	return format, sep, nil
}

// writerOf constructs the output writer for a command, honoring -o (path or
// "-" for stdout), --to/--fmt (format override), --wrap (FASTA wrap width),
// and --append (no truncation, no format headers written twice).
func writerOf(c *cli.Context, cfg *config, fm record.FieldMap) (record.Writer, func() error, error) {
	outPath := outputPath(c)
	format, sep, err := resolveOutputFormat(c, cfg, outPath)
	if err != nil {
		return nil, nil, err
	}

	codec, _ := splitCodec(outPath)
	wc, err := openEncodeTarget(outPath, codec, cfg.appendMode)
	if err != nil {
		return nil, nil, err
	}

	var w record.Writer
	switch format {
	case record.FASTA:
		w = record.NewFastaWriter(wc, cfg.wrap)
	case record.FASTQ:
		w = record.NewFastqWriter(wc, record.Sanger)
	default:
		w = record.NewDelimWriter(wc, sep, fm)
	}
	return w, wc.Close, nil
}
