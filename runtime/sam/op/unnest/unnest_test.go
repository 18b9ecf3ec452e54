package unnest

import (
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/sbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenList(t *testing.T) {
	frame := expr.NewFrame(&expr.Env{}, 0)
	parent := sbuf.NewPuller(sbuf.NewBatch([]sbuf.Record{
		sbuf.NewRecord([]shesmu.Value{"r", shesmu.List{shesmu.Tuple{int64(1), "x"}, shesmu.Tuple{int64(2), "y"}}}),
		sbuf.NewRecord([]shesmu.Value{"s", shesmu.List{}}),
	}))
	bind := expr.BindTuple{expr.BindSlot(2), expr.BindDiscard{}}
	recs, err := sbuf.ReadAll(New(parent, frame, expr.StreamVar(1), false, bind, 3))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r", recs[0].Values[0])
	assert.Equal(t, int64(1), recs[0].Values[2])
	assert.Equal(t, int64(2), recs[1].Values[2])
	assert.Equal(t, "r", recs[1].Origin.Input[0])
}

func TestFlattenOptional(t *testing.T) {
	frame := expr.NewFrame(&expr.Env{}, 0)
	parent := sbuf.NewPuller(sbuf.NewBatch([]sbuf.Record{
		sbuf.NewRecord([]shesmu.Value{shesmu.Some(int64(7))}),
		sbuf.NewRecord([]shesmu.Value{shesmu.None}),
	}))
	recs, err := sbuf.ReadAll(New(parent, frame, expr.StreamVar(0), true, expr.BindSlot(1), 2))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(7), recs[0].Values[1])
}
