package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestUniqueAttrWriteUsesNDuplicates exercises "unique seq -a
// abund={n_duplicates}" over three records where two share a sequence,
// checking that n_duplicates carries the total occurrence count (not
// count-1) and that first-occurrence order and IDs are preserved.
func TestUniqueAttrWriteUsesNDuplicates(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.fasta")
	out := filepath.Join(dir, "out.fasta")

	fasta := ">r1\nACG\n>r2\nACG\n>r3\nACGT\n"
	if err := os.WriteFile(in, []byte(fasta), 0o644); err != nil {
		t.Fatalf("writing input fixture: %v", err)
	}

	app := application()
	args := []string{"st", "unique", "-k", "seq", "-a", "abund={n_duplicates}", "-o", out, in}
	if err := app.Run(args); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	want := ">r1 abund=2\nACG\n>r3 abund=1\nACGT\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
