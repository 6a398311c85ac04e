package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/ioz"
	"github.com/bebop/seqtool/internal/record"
)

const defaultMaxLineSize = 1 << 20 // 1 MiB, generous enough for long reads

// splitCodec mirrors ioz.SniffCodec but returns the codec alone, for callers
// that already know the format and only need the compression layer.
func splitCodec(path string) (ioz.Codec, string) {
	return ioz.SniffCodec(path)
}

func openEncodeTarget(path string, codec ioz.Codec, appendMode bool) (io.WriteCloser, error) {
	return ioz.CreateEncode(path, codec, appendMode)
}

// openReaders builds one record.Reader per input path (or a single stdin
// reader when no paths are given), resolving format per file from its
// extension unless --from overrides it for every file uniformly.
func openReaders(c *cli.Context, cfg *config) ([]*record.Reader, error) {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	override := c.String("from")
	if override == "" {
		override = cfg.defaultFormat
	}

	readers := make([]*record.Reader, 0, len(paths))
	for _, p := range paths {
		r, err := openOneReader(p, override)
		if err != nil {
			return nil, err
		}
		readers = append(readers, r)
	}
	return readers, nil
}

func openOneReader(path, override string) (*record.Reader, error) {
	var format record.Format
	var sep byte
	var err error
	if override != "" {
		format, sep, err = parseFormatOverride(override)
		if err != nil {
			return nil, err
		}
	} else {
		format, sep, _ = sniffFormat(path)
	}

	codec, _ := splitCodec(path)
	rc, err := ioz.OpenDecode(path, codec)
	if err != nil {
		return nil, err
	}

	switch format {
	case record.FASTA:
		fr := record.NewFastaReader(rc, defaultMaxLineSize)
		return record.NewReader(path, fr.Next), nil
	case record.FASTQ:
		fq := record.NewFastqReader(rc, defaultMaxLineSize, record.Sanger)
		return record.NewReader(path, fq.Next), nil
	default:
		dr := record.NewDelimReader(rc, sep, record.DefaultFieldMap, false)
		return record.NewReader(path, dr.Next), nil
	}
}

// defaultExtFor reports the extension a command should report through the
// default_ext variable: the first input file's suffix, stripped of any
// compression extension, or "" for stdin.
func defaultExtFor(paths []string) string {
	if len(paths) == 0 || paths[0] == "-" {
		return ""
	}
	_, stripped := ioz.SniffCodec(paths[0])
	return strings.TrimPrefix(filepath.Ext(stripped), ".")
}

var errNoPatterns = fmt.Errorf("at least one -p/--pattern is required")
