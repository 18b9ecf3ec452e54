package expr

import (
	"github.com/oicr-gsi/shesmu"
)

type ListExpr struct {
	elems []Evaluator
}

func NewListExpr(elems []Evaluator) *ListExpr {
	return &ListExpr{elems}
}

func (l *ListExpr) Eval(f *Frame) shesmu.Value {
	b := shesmu.NewListBuilder()
	for _, e := range l.elems {
		b.Add(e.Eval(f))
	}
	return b.List()
}

type TupleExpr struct {
	elems []Evaluator
}

func NewTupleExpr(elems []Evaluator) *TupleExpr {
	return &TupleExpr{elems}
}

func (t *TupleExpr) Eval(f *Frame) shesmu.Value {
	out := make(shesmu.Tuple, 0, len(t.elems))
	for _, e := range t.elems {
		out = append(out, e.Eval(f))
	}
	return out
}

// ObjectExpr evaluates fields given in canonical order.
type ObjectExpr struct {
	fields []Evaluator
}

func NewObjectExpr(fields []Evaluator) *ObjectExpr {
	return &ObjectExpr{fields}
}

func (o *ObjectExpr) Eval(f *Frame) shesmu.Value {
	out := make(shesmu.Object, 0, len(o.fields))
	for _, e := range o.fields {
		out = append(out, e.Eval(f))
	}
	return out
}

// SomeExpr wraps its operand in a present optional.  A nil operand is the
// empty optional.
type SomeExpr struct {
	expr Evaluator
}

func NewSomeExpr(e Evaluator) *SomeExpr {
	return &SomeExpr{e}
}

func (s *SomeExpr) Eval(f *Frame) shesmu.Value {
	if s.expr == nil {
		return shesmu.None
	}
	return shesmu.Some(s.expr.Eval(f))
}

// Dot selects the index-th field of an object or element of a tuple.
type Dot struct {
	expr  Evaluator
	index int
}

func NewDot(e Evaluator, index int) *Dot {
	return &Dot{e, index}
}

func (d *Dot) Eval(f *Frame) shesmu.Value {
	switch v := d.expr.Eval(f).(type) {
	case shesmu.Object:
		return v[d.index]
	case shesmu.Tuple:
		return v[d.index]
	}
	panic("expr: field of non-record value")
}
