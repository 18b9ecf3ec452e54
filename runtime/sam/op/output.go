package op

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr/agg"
)

// Output is one collector of a Group or LeftJoin.
type Output struct {
	Where  expr.Evaluator
	Agg    *expr.Aggregator
	Unwrap bool
}

// Row holds the running collector state of one output record.
type Row []agg.Function

func NewRow(f *expr.Frame, outputs []Output) Row {
	row := make(Row, 0, len(outputs))
	for _, o := range outputs {
		row = append(row, o.Agg.NewFunction(f))
	}
	return row
}

// Consume feeds the record loaded in f to every output whose filter
// accepts it.
func (r Row) Consume(f *expr.Frame, outputs []Output) {
	for i, o := range outputs {
		if o.Where != nil && !o.Where.Eval(f).(bool) {
			continue
		}
		o.Agg.Apply(f, r[i])
	}
}

// Results appends the output values to vals.  It reports false if an
// unwrapped output is empty, in which case the record is dropped.
func (r Row) Results(f *expr.Frame, outputs []Output, vals []shesmu.Value) ([]shesmu.Value, bool) {
	for i, o := range outputs {
		v := o.Agg.Result(f, r[i])
		if o.Unwrap {
			opt := v.(shesmu.Optional)
			if !opt.Valid {
				return nil, false
			}
			v = opt.V
		}
		vals = append(vals, v)
	}
	return vals, true
}
