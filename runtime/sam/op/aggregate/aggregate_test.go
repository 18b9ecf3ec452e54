package aggregate

import (
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr/agg"
	"github.com/oicr-gsi/shesmu/runtime/sam/op"
	"github.com/oicr-gsi/shesmu/sbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(rows ...[]shesmu.Value) sbuf.Puller {
	var recs []sbuf.Record
	for _, r := range rows {
		recs = append(recs, sbuf.NewRecord(r))
	}
	return sbuf.NewPuller(sbuf.NewBatch(recs[:1]), sbuf.NewBatch(recs[1:]))
}

func run(t *testing.T, p sbuf.Puller) [][]shesmu.Value {
	recs, err := sbuf.ReadAll(p)
	require.NoError(t, err)
	var out [][]shesmu.Value
	for _, r := range recs {
		assert.Nil(t, r.Origin)
		out = append(out, r.Values)
	}
	return out
}

func TestGroupSum(t *testing.T) {
	// Group By p Into total = Reduce (s = 0) s + v
	frame := expr.NewFrame(&expr.Env{}, 1)
	sum := expr.NewReducer(expr.NewLiteral(int64(0)), expr.BindSlot(0),
		expr.NewArithmetic(expr.LocalVar(0), expr.StreamVar(1), "+"), shesmu.TypeInt)
	g := New(input(
		[]shesmu.Value{"A", int64(1)},
		[]shesmu.Value{"A", int64(3)},
		[]shesmu.Value{"B", int64(2)},
	), frame, []expr.Evaluator{expr.StreamVar(0)}, []op.Output{{Agg: sum}})
	assert.Equal(t, [][]shesmu.Value{{"A", int64(4)}, {"B", int64(2)}}, run(t, g))
}

func TestGroupDropsEmptyUnwrapped(t *testing.T) {
	// Group By p Into v = Univalued v
	frame := expr.NewFrame(&expr.Env{}, 0)
	uni, err := expr.NewAggregator("Univalued", expr.StreamVar(1), nil, shesmu.NewTypeOptional(shesmu.TypeInt))
	require.NoError(t, err)
	g := New(input(
		[]shesmu.Value{"A", int64(1)},
		[]shesmu.Value{"A", int64(1)},
		[]shesmu.Value{"B", int64(2)},
		[]shesmu.Value{"B", int64(3)},
	), frame, []expr.Evaluator{expr.StreamVar(0)}, []op.Output{{Agg: uni, Unwrap: true}})
	assert.Equal(t, [][]shesmu.Value{{"A", int64(1)}}, run(t, g))
}

func TestGroupWhere(t *testing.T) {
	// Group By p Into n = Where v > 1 Count
	frame := expr.NewFrame(&expr.Env{}, 0)
	count, err := expr.NewAggregator("Count", nil, nil, shesmu.TypeInt)
	require.NoError(t, err)
	where := expr.NewCompareRelative(expr.StreamVar(1), expr.NewLiteral(int64(1)), ">")
	g := New(input(
		[]shesmu.Value{"A", int64(1)},
		[]shesmu.Value{"A", int64(3)},
		[]shesmu.Value{"B", int64(1)},
	), frame, []expr.Evaluator{expr.StreamVar(0)}, []op.Output{{Where: where, Agg: count}})
	assert.Equal(t, [][]shesmu.Value{{"A", int64(1)}, {"B", int64(0)}}, run(t, g))
}

func TestGroupDuplicateDictKey(t *testing.T) {
	frame := expr.NewFrame(&expr.Env{}, 0)
	dict, err := expr.NewAggregator("Dict", expr.NewTupleExpr([]expr.Evaluator{expr.StreamVar(0), expr.StreamVar(1)}), nil,
		shesmu.NewTypeMap(shesmu.TypeString, shesmu.TypeInt))
	require.NoError(t, err)
	g := New(input(
		[]shesmu.Value{"A", int64(1)},
		[]shesmu.Value{"A", int64(2)},
	), frame, nil, []op.Output{{Agg: dict}})
	_, err = sbuf.ReadAll(g)
	assert.ErrorIs(t, err, agg.ErrDuplicateDictKey)
}
