package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bebop/seqtool/internal/ioz"
	"github.com/bebop/seqtool/internal/record"
)

// sniffFormat strips any compression extension via ioz.SniffCodec and infers
// the sequence format from what remains, per the extension-sniffing rule:
// fasta/fastq/csv/tsv in any case, with unknown extensions for delimited
// text defaulting to tab and ".csv" meaning comma.
func sniffFormat(path string) (record.Format, byte, string) {
	_, stripped := ioz.SniffCodec(path)
	ext := strings.ToLower(filepath.Ext(stripped))
	switch ext {
	case ".fa", ".fasta", ".fna", ".faa":
		return record.FASTA, 0, strings.TrimPrefix(ext, ".")
	case ".fq", ".fastq":
		return record.FASTQ, 0, strings.TrimPrefix(ext, ".")
	case ".csv":
		return record.Delim, ',', "csv"
	case ".tsv":
		return record.Delim, '\t', "tsv"
	default:
		return record.Delim, '\t', "tsv"
	}
}

// parseFormatOverride resolves an explicit --from/--to/--fmt token to a
// format and delimiter, for the cases where extension-sniffing is
// overridden or the stream has no path to sniff (stdin/stdout).
func parseFormatOverride(s string) (record.Format, byte, error) {
	switch strings.ToLower(s) {
	case "", "fasta", "fa", "fna", "faa":
		return record.FASTA, 0, nil
	case "fastq", "fq":
		return record.FASTQ, 0, nil
	case "csv":
		return record.Delim, ',', nil
	case "tsv":
		return record.Delim, '\t', nil
	default:
		return 0, 0, fmt.Errorf("unrecognized format %q (want fasta, fastq, csv, or tsv)", s)
	}
}
