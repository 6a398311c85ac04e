package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/seqtool/internal/clog"
	"github.com/bebop/seqtool/internal/record"
	"github.com/bebop/seqtool/internal/variable"
)

func newFastaReader(data string) *record.Reader {
	fr := record.NewFastaReader(strings.NewReader(data), 64*1024)
	return record.NewReader("-", fr.Next)
}

func TestDriverPassThrough(t *testing.T) {
	r := newFastaReader(">r1\nACGT\n>r2\nTTTT\n")
	var out bytes.Buffer
	w := record.NewFastaWriter(&out, 0)

	d := New([]*record.Reader{r}, w, nil)
	d.Log = clog.Default(false)
	require.NoError(t, d.Run())

	assert.Equal(t, ">r1\nACGT\n>r2\nTTTT\n", out.String())
	assert.Equal(t, int64(2), d.Report.Total)
	assert.Equal(t, int64(2), d.Report.Written)
}

func TestDriverDropsRecordsToSideOutput(t *testing.T) {
	r := newFastaReader(">keep\nACGT\n>drop\nTTTT\n")
	var out, dropped bytes.Buffer
	w := record.NewFastaWriter(&out, 0)
	dw := record.NewFastaWriter(&dropped, 0)

	body := func(ctx *variable.Context, rec *record.Record) (Action, error) {
		if string(rec.ID) == "drop" {
			return ActionDrop, nil
		}
		return ActionKeep, nil
	}

	d := New([]*record.Reader{r}, w, body)
	d.Log = clog.Default(false)
	d.Dropped = dw
	require.NoError(t, d.Run())

	assert.Equal(t, ">keep\nACGT\n", out.String())
	assert.Equal(t, ">drop\nTTTT\n", dropped.String())
	assert.Equal(t, int64(1), d.Report.Written)
	assert.Equal(t, int64(1), d.Report.Dropped)
}

func TestDriverRecoverableErrorIsCountedNotFatal(t *testing.T) {
	r := newFastaReader(">bad\nACGT\n>good\nTTTT\n")
	var out bytes.Buffer
	w := record.NewFastaWriter(&out, 0)

	body := func(ctx *variable.Context, rec *record.Record) (Action, error) {
		if string(rec.ID) == "bad" {
			return ActionKeep, &RecoverableError{Cause: assertErr("boom")}
		}
		return ActionKeep, nil
	}

	d := New([]*record.Reader{r}, w, body)
	d.Log = clog.Default(false)
	require.NoError(t, d.Run())

	assert.Equal(t, int64(1), d.Report.Errors)
	assert.Equal(t, int64(1), d.Report.Skipped)
	assert.Equal(t, ">good\nTTTT\n", out.String())
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
