package expr

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr/agg"
)

// Aggregator evaluates a collector.  Per-item expressions see the item
// bound in the frame; Initial, Default and Delimiter are evaluated in the
// enclosing scope.
type Aggregator struct {
	pattern agg.Pattern
	expr    Evaluator
	typ     shesmu.Type
	// Reduce
	initial Evaluator
	acc     Binder
	// First, Max and Min
	fallback Evaluator
	// Concatenate
	lexical   bool
	delimiter Evaluator
}

// NewAggregator returns the aggregator for one of the collectors named by
// agg.NewPattern.  A nil expr consumes nothing but the item count.
func NewAggregator(op string, expr Evaluator, fallback Evaluator, typ shesmu.Type) (*Aggregator, error) {
	pattern, err := agg.NewPattern(op)
	if err != nil {
		return nil, err
	}
	if expr == nil {
		expr = &Literal{true}
	}
	return &Aggregator{pattern: pattern, expr: expr, fallback: fallback, typ: typ}, nil
}

func NewReducer(initial Evaluator, acc Binder, expr Evaluator, typ shesmu.Type) *Aggregator {
	return &Aggregator{
		pattern: func() agg.Function { return new(agg.Reduce) },
		expr:    expr,
		typ:     typ,
		initial: initial,
		acc:     acc,
	}
}

func NewConcatenator(lexical bool, expr, delimiter Evaluator) *Aggregator {
	return &Aggregator{
		pattern:   func() agg.Function { return &agg.Concat{Lexical: lexical} },
		expr:      expr,
		typ:       shesmu.TypeString,
		lexical:   lexical,
		delimiter: delimiter,
	}
}

func (a *Aggregator) NewFunction(f *Frame) agg.Function {
	fn := a.pattern()
	if r, ok := fn.(*agg.Reduce); ok {
		r.Acc = a.initial.Eval(f)
	}
	return fn
}

func (a *Aggregator) Apply(f *Frame, fn agg.Function) {
	if r, ok := fn.(*agg.Reduce); ok {
		a.acc.Bind(f.Locals, r.Acc)
	}
	fn.Consume(a.expr.Eval(f))
}

func (a *Aggregator) Result(f *Frame, fn agg.Function) shesmu.Value {
	if c, ok := fn.(*agg.Concat); ok {
		c.Delimiter = a.delimiter.Eval(f).(string)
	}
	v, err := fn.Result()
	if err != nil {
		f.Fail(err)
		return shesmu.Zero(a.typ)
	}
	if a.fallback != nil {
		if o := v.(shesmu.Optional); o.Valid {
			return o.V
		}
		return a.fallback.Eval(f)
	}
	return v
}
