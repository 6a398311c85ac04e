/*
Package meta implements a metadata joiner: attaching fields from a side
delimited-text file to records by ID, auto-selecting between a
synchronized streaming join (cheap, assumes matching order) and an indexed
hash-map join (robust, costs memory proportional to the metadata file):
rows are matched in file order until a query ID disagrees with the next
row, after which the indexed map is used.

Grounded on internal/record/delim.go's "no quoting applied or recognized"
plain byte-split (the metadata file gets the identical treatment, just
without being squeezed through the 4-field ID/Desc/Seq/Qual Record shape)
and on rbs_calculator's csv_helper field-by-index row access for the
indexed half.
*/
package meta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// defaultWarmUpRecords is the value a zero Options.WarmUpRecords stands
// for. Lookup does not count records against it: synchronized mode lasts
// until the first disagreement, whenever it occurs.
const defaultWarmUpRecords = 10000

// Joiner implements variable.MetaLookup, resolving a record ID to its
// metadata fields (everything in the row except the key column).
type Joiner struct {
	warmUp     int
	rows       []row
	pos        int
	seenIDs    int
	byID       map[string][]string
	indexed    bool
	fallback   bool
	allowDupIDs bool
	columns    map[string]int
}

type row struct {
	id     string
	fields []string
}

// Options configures the join.
type Options struct {
	// KeyColumn is the zero-based column in the metadata file holding the
	// join key (record ID). Defaults to 0.
	KeyColumn int
	// WarmUpRecords overrides defaultWarmUpRecords; 0 keeps the default. A
	// negative value forces indexed mode immediately; otherwise the value
	// does not change how Lookup behaves.
	WarmUpRecords int
	// HasHeader skips the first line of the metadata file and, when set,
	// builds a header-name-to-column map so meta()/opt_meta() can resolve
	// non-numeric arguments by name.
	HasHeader bool
	// AllowDupIDs permits duplicate join keys; the indexed map keeps the
	// last-seen row. Without it, Load rejects any duplicate ID in the file
	// with an error, whichever mode the join later uses.
	AllowDupIDs bool
}

// Load reads the entire metadata file from r (delimiter-split, no quoting,
// matching internal/record/delim.go's contract) and returns a Joiner ready
// to be driven by Lookup calls in record order. The file must be read in
// full regardless of which mode eventually wins, since the indexed
// fallback needs every row buffered anyway.
func Load(r io.Reader, sep byte, opts Options) (*Joiner, error) {
	keyCol := opts.KeyColumn
	warmUp := opts.WarmUpRecords
	if warmUp == 0 {
		warmUp = defaultWarmUpRecords
	}

	j := &Joiner{warmUp: warmUp, allowDupIDs: opts.AllowDupIDs}
	if warmUp < 0 {
		j.indexed = true
		j.byID = make(map[string][]string)
	}

	seen := make(map[string]bool)
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) == 0 && err == io.EOF {
			break
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading metadata: line %d: %w", lineNo+1, err)
		}
		lineNo++
		line = trimNewline(line)
		if lineNo == 1 && opts.HasHeader {
			if err == io.EOF {
				break
			}
			j.columns = columnIndex(bytes.Split([]byte(line), []byte{sep}), keyCol)
			continue
		}
		parts := bytes.Split([]byte(line), []byte{sep})
		if keyCol < 0 || keyCol >= len(parts) {
			return nil, fmt.Errorf("metadata line %d: key column %d out of range for %d fields", lineNo, keyCol, len(parts))
		}
		id := string(parts[keyCol])
		if seen[id] && !opts.AllowDupIDs {
			return nil, fmt.Errorf("metadata line %d: duplicate ID %q (pass --dup-ids if this is expected)", lineNo, id)
		}
		seen[id] = true
		rest := make([]string, 0, len(parts)-1)
		for i, p := range parts {
			if i == keyCol {
				continue
			}
			rest = append(rest, string(p))
		}
		j.rows = append(j.rows, row{id: id, fields: rest})
		if j.indexed {
			j.byID[id] = rest
		}
		if err == io.EOF {
			break
		}
	}
	return j, nil
}

// columnIndex builds a header-name-to-field-index map matching the
// key-column-excluded shape of row.fields, so lookupMeta's non-numeric
// meta() arguments resolve to the same indices Lookup's fields slice uses.
func columnIndex(headerParts [][]byte, keyCol int) map[string]int {
	cols := make(map[string]int, len(headerParts))
	idx := 0
	for i, p := range headerParts {
		if i == keyCol {
			continue
		}
		cols[string(p)] = idx
		idx++
	}
	return cols
}

// ColumnIndex implements variable.MetaColumns, resolving a metadata file's
// header name to its zero-based position in each row's fields (nil/false
// when the file had no header).
func (j *Joiner) ColumnIndex(name string) (int, bool) {
	idx, ok := j.columns[name]
	return idx, ok
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// Lookup resolves id's metadata fields, implementing variable.MetaLookup.
// In synchronized mode it compares id with the next row in file order and,
// when they agree, returns that row and advances (O(1) per lookup). The
// first disagreement, at any record, permanently falls back to the indexed
// map (built lazily on first need), trading memory for correctness once
// order cannot be trusted.
func (j *Joiner) Lookup(id string) ([]string, bool) {
	if j.indexed {
		fields, ok := j.byID[id]
		return fields, ok
	}

	j.seenIDs++
	if !j.fallback && j.pos < len(j.rows) && j.rows[j.pos].id == id {
		fields := j.rows[j.pos].fields
		j.pos++
		return fields, true
	}

	j.fallback = true
	if j.byID == nil {
		j.byID = make(map[string][]string, len(j.rows))
		for _, r := range j.rows {
			j.byID[r.id] = r.fields
		}
		j.indexed = true
	}
	fields, ok := j.byID[id]
	return fields, ok
}

// Mode reports "synchronized" or "indexed" for diagnostics/reporting.
func (j *Joiner) Mode() string {
	if j.indexed {
		return "indexed"
	}
	return "synchronized"
}
