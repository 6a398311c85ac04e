package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bebop/seqtool/internal/pipeline"
)

// TestFindReportTalliesPerPatternHits exercises the --report JSON through
// the real cli.App, rescuing os.Stderr around the run since --report
// writes there directly rather than through app.Writer.
func TestFindReportTalliesPerPatternHits(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.fasta")
	out := filepath.Join(dir, "out.fasta")

	fasta := ">r1\nACGTNNNN\n>r2\nNNNNTTTT\n>r3\nGGGGGGGG\n"
	if err := os.WriteFile(in, []byte(fasta), 0o644); err != nil {
		t.Fatalf("writing input fixture: %v", err)
	}

	rescue := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stderr = w

	app := application()
	args := []string{"st", "--report", "find", "-p", "ACGT", "-p", "TTTT", "-o", out, in}
	runErr := app.Run(args)

	w.Close()
	os.Stderr = rescue
	captured, _ := io.ReadAll(r)

	if runErr != nil {
		t.Fatalf("Run error: %v", runErr)
	}

	var rep pipeline.Report
	if err := json.Unmarshal(captured, &rep); err != nil {
		t.Fatalf("decoding --report JSON %q: %v", captured, err)
	}

	if rep.Total != 3 {
		t.Errorf("Total = %d, want 3", rep.Total)
	}
	if len(rep.Patterns) != 2 {
		t.Fatalf("Patterns = %v, want 2 entries", rep.Patterns)
	}
	if rep.Patterns[0].Text != "ACGT" || rep.Patterns[0].Hits != 1 {
		t.Errorf("Patterns[0] = %+v, want {Text: ACGT, Hits: 1}", rep.Patterns[0])
	}
	if rep.Patterns[1].Text != "TTTT" || rep.Patterns[1].Hits != 1 {
		t.Errorf("Patterns[1] = %+v, want {Text: TTTT, Hits: 1}", rep.Patterns[1])
	}
}
