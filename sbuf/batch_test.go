package sbuf

import (
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayRead(t *testing.T) {
	a := NewArray([]Record{NewRecord([]shesmu.Value{int64(1)}), NewRecord([]shesmu.Value{int64(2)})})
	require.Equal(t, int64(1), a.Read().Values[0])
	require.Equal(t, int64(2), a.Read().Values[0])
	require.Nil(t, a.Read())
}

func TestMeterCountsRecords(t *testing.T) {
	var progress Progress
	recs := []Record{NewRecord(nil), NewRecord(nil), NewRecord(nil)}
	p := Meter(NewPuller(NewBatch(recs[:2]), NewBatch(recs[2:])), &progress)
	out, err := ReadAll(p)
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, int64(3), progress.RecordsRead.Load())
}

func TestDeriveKeepsOrigin(t *testing.T) {
	r := NewRecord([]shesmu.Value{"a"})
	d := r.Derive([]shesmu.Value{"b"})
	assert.Same(t, r.Origin, d.Origin)
	assert.Equal(t, []shesmu.Value{"a"}, d.Origin.Input)
}
