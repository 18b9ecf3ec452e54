package op_test

import (
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/runtime/sam/op"
	"github.com/oicr-gsi/shesmu/sbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(rows ...[]shesmu.Value) sbuf.Puller {
	recs := make([]sbuf.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, sbuf.NewRecord(r))
	}
	return sbuf.NewPuller(sbuf.NewBatch(recs))
}

func values(t *testing.T, p sbuf.Puller) [][]shesmu.Value {
	recs, err := sbuf.ReadAll(p)
	require.NoError(t, err)
	var out [][]shesmu.Value
	for _, r := range recs {
		out = append(out, r.Values)
	}
	return out
}

func TestFilter(t *testing.T) {
	frame := expr.NewFrame(&expr.Env{}, 0)
	pred := expr.NewCompareEquality(expr.StreamVar(0), expr.NewLiteral(int64(1)), "==")
	p := op.NewFilter(records([]shesmu.Value{int64(1)}, []shesmu.Value{int64(2)}, []shesmu.Value{int64(1)}), frame, pred)
	assert.Equal(t, [][]shesmu.Value{{int64(1)}, {int64(1)}}, values(t, p))
}

func TestApplierKeepsOrigin(t *testing.T) {
	frame := expr.NewFrame(&expr.Env{}, 0)
	double := expr.NewArithmetic(expr.StreamVar(0), expr.StreamVar(0), "+")
	p := op.NewApplier(records([]shesmu.Value{int64(2), "a"}), frame, []expr.Evaluator{double})
	recs, err := sbuf.ReadAll(p)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []shesmu.Value{int64(4)}, recs[0].Values)
	assert.Equal(t, []shesmu.Value{int64(2), "a"}, recs[0].Origin.Input)
}

func TestApplierReportsDivideByZero(t *testing.T) {
	frame := expr.NewFrame(&expr.Env{}, 0)
	div := expr.NewArithmetic(expr.StreamVar(0), expr.NewLiteral(int64(0)), "/")
	_, err := sbuf.ReadAll(op.NewApplier(records([]shesmu.Value{int64(2)}), frame, []expr.Evaluator{div}))
	assert.ErrorIs(t, err, expr.ErrDivideByZero)
}

type panicker struct{}

func (panicker) Pull(bool) (sbuf.Batch, error) {
	panic("boom")
}

func TestCatcher(t *testing.T) {
	_, err := op.NewCatcher(panicker{}).Pull(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: boom")
}
