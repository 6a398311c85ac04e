package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bebop/seqtool/internal/clog"
	"github.com/bebop/seqtool/internal/header"
	"github.com/bebop/seqtool/internal/meta"
	"github.com/bebop/seqtool/internal/pipeline"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/variable"
)

// runPipeline wires up readers, a writer, and the optional --dropped side
// channel, then drives body over every record via the shared pipeline
// driver, emitting --report at the end. Every command body (trim/mask/
// find/replace) is ultimately just a pipeline.Body plugged in here.
//
// finalize, if given, runs after Run() completes and before the report is
// emitted, letting a command attach its own statistics (e.g. find/replace
// tallying per-pattern hit counts into Report.Patterns) to the shared
// *pipeline.Report.
func runPipeline(c *cli.Context, fm record.FieldMap, body pipeline.Body, finalize ...func(*pipeline.Report)) error {
	cfg := configFrom(c)

	readers, err := openReaders(c, cfg)
	if err != nil {
		return err
	}
	w, closeW, err := writerOf(c, cfg, fm)
	if err != nil {
		return err
	}

	d := pipeline.New(readers, w, body)
	d.AttrFmt = cfg.attrFmt
	d.DefaultExt = defaultExtFor(c.Args().Slice())
	d.Log = clog.Default(cfg.verbose)

	if cfg.droppedPath != "" {
		dw, closeD, err := openSideWriter(cfg.droppedPath, cfg, fm)
		if err != nil {
			return err
		}
		defer closeD()
		d.Dropped = dw
	}

	if mp := c.String("meta"); mp != "" {
		j, err := loadMeta(c, mp)
		if err != nil {
			return err
		}
		d.Meta = j
	}

	runErr := d.Run()
	if closeErr := closeW(); runErr == nil {
		runErr = closeErr
	}
	for _, f := range finalize {
		f(d.Report)
	}
	if cfg.report {
		if d.Meta != nil {
			// Mode() is only meaningful once the joiner has actually been
			// driven through Lookup calls, which Run() above has done.
			if j, ok := d.Meta.(*meta.Joiner); ok {
				d.Report.SortMode = j.Mode()
			}
		}
		if err := d.Report.Emit(os.Stderr); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func openSideWriter(path string, cfg *config, fm record.FieldMap) (record.Writer, func() error, error) {
	format, sep, _ := sniffFormat(path)
	codec, _ := splitCodec(path)
	wc, err := openEncodeTarget(path, codec, cfg.appendMode)
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

func loadMeta(c *cli.Context, path string) (*meta.Joiner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening --meta file: %w", err)
	}
	defer f.Close()
	sep := byte('\t')
	if c.Bool("meta-csv") {
		sep = ','
	}
	return meta.Load(f, sep, meta.Options{
		KeyColumn:   c.Int("meta-key-column"),
		HasHeader:   c.Bool("meta-header"),
		AllowDupIDs: c.Bool("dup-ids"),
	})
}

// metaFlags are the --meta/--meta-csv/--meta-key-column/--meta-header/
// --dup-ids flags shared by every command whose template may reference
// meta()/opt_meta().
func metaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "meta", Usage: "join a delimited metadata file by record ID, for meta()/opt_meta()"},
		&cli.BoolFlag{Name: "meta-csv", Usage: "metadata file is comma-delimited (default tab)"},
		&cli.IntFlag{Name: "meta-key-column", Usage: "zero-based metadata column holding the join key"},
		&cli.BoolFlag{Name: "meta-header", Usage: "metadata file's first line is a header row"},
		&cli.BoolFlag{Name: "dup-ids", Usage: "allow duplicate metadata IDs (indexed mode keeps the last-seen row) instead of a fatal error"},
	}
}

// compileTemplate compiles a -t/--template format string against a shared
// JS host, surfacing a clear startup error rather than failing per record.
func compileTemplate(src string, host *variable.JSHost) (*variable.Template, error) {
	if src == "" {
		return nil, nil
	}
	return variable.Compile(src, host)
}

// attrWrite is one compiled -a/-A key=template header-attribute write.
// Append selects header.Append's fast, no-replace-check insertion (-A);
// otherwise header.Set's replace-or-append semantics (-a) apply.
type attrWrite struct {
	Key    string
	Tmpl   *variable.Template
	Append bool
}

// attrWriteFlags are the -a/-A flags shared by every command that can
// annotate a header from a rendered template (find, unique, ...).
func attrWriteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "a", Usage: "key=template header attribute to set (replacing any existing key); repeatable"},
		&cli.StringSliceFlag{Name: "A", Usage: "key=template header attribute to append, without replacing an existing key; repeatable"},
	}
}

// compileAttrWrites compiles every -a/-A flag value into an attrWrite,
// in the order given (all -a entries are compiled before -A's, but
// applyAttrWrites runs them in this slice's order so repeats interleave
// the way the user wrote them only within each flag).
func compileAttrWrites(c *cli.Context, host *variable.JSHost) ([]attrWrite, error) {
	var out []attrWrite
	for _, raw := range c.StringSlice("a") {
		w, err := parseAttrWrite(raw, false, host)
		if err != nil {
			return nil, fmt.Errorf("-a %s: %w", raw, err)
		}
		out = append(out, w)
	}
	for _, raw := range c.StringSlice("A") {
		w, err := parseAttrWrite(raw, true, host)
		if err != nil {
			return nil, fmt.Errorf("-A %s: %w", raw, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func parseAttrWrite(raw string, fastAppend bool, host *variable.JSHost) (attrWrite, error) {
	key, tmplSrc, ok := strings.Cut(raw, "=")
	if !ok {
		return attrWrite{}, fmt.Errorf("must be key=template")
	}
	tmpl, err := compileTemplate(tmplSrc, host)
	if err != nil {
		return attrWrite{}, err
	}
	return attrWrite{Key: key, Tmpl: tmpl, Append: fastAppend}, nil
}

// applyAttrWrites renders every write against ctx and splices the results
// into rec's attribute segment (description or ID, per ctx.AttrFmt).
//
// Record.HeaderBytes joins ID and a non-empty Desc with a single space, so
// the bytes header.Scan actually sees on a written-out record are
// " "+Desc, not Desc alone. Desc mirrors that here before scanning and has
// the synthetic leading space stripped back off before being stored; when
// Desc was empty, the first write's own prefix is stripped too, so the
// record gets exactly one separating space rather than one from
// HeaderBytes plus another from the attribute format's prefix.
func applyAttrWrites(ctx *variable.Context, rec *record.Record, writes []attrWrite) error {
	if len(writes) == 0 {
		return nil
	}
	setDesc := ctx.AttrFmt.InDescription()
	var segment []byte
	if setDesc {
		segment = append([]byte(" "), rec.Desc...)
	} else {
		segment = rec.ID
	}
	for _, w := range writes {
		value, err := w.Tmpl.Render(ctx)
		if err != nil {
			return err
		}
		if w.Append {
			segment = header.Append(segment, ctx.AttrFmt, w.Key, value)
		} else {
			segment = header.Set(segment, ctx.AttrFmt, w.Key, value)
		}
	}
	if setDesc {
		desc := segment[1:]
		if len(rec.Desc) == 0 {
			desc = []byte(strings.TrimPrefix(string(desc), ctx.AttrFmt.Prefix))
		}
		rec.Desc = desc
	} else {
		rec.ID = segment
	}
	return nil
}
