package expr

import (
	"errors"
	"path"
	"strings"
	"time"

	"github.com/oicr-gsi/shesmu"
)

var ErrDivideByZero = errors.New("divide by zero")

type Not struct {
	expr Evaluator
}

func NewLogicalNot(e Evaluator) *Not {
	return &Not{e}
}

func (n *Not) Eval(f *Frame) shesmu.Value {
	return !n.expr.Eval(f).(bool)
}

type And struct {
	lhs Evaluator
	rhs Evaluator
}

func NewLogicalAnd(lhs, rhs Evaluator) *And {
	return &And{lhs, rhs}
}

func (a *And) Eval(f *Frame) shesmu.Value {
	return a.lhs.Eval(f).(bool) && a.rhs.Eval(f).(bool)
}

type Or struct {
	lhs Evaluator
	rhs Evaluator
}

func NewLogicalOr(lhs, rhs Evaluator) *Or {
	return &Or{lhs, rhs}
}

func (o *Or) Eval(f *Frame) shesmu.Value {
	return o.lhs.Eval(f).(bool) || o.rhs.Eval(f).(bool)
}

type Equal struct {
	equal bool
	lhs   Evaluator
	rhs   Evaluator
}

func NewCompareEquality(lhs, rhs Evaluator, op string) *Equal {
	return &Equal{op == "==", lhs, rhs}
}

func (e *Equal) Eval(f *Frame) shesmu.Value {
	return shesmu.Equal(e.lhs.Eval(f), e.rhs.Eval(f)) == e.equal
}

type Compare struct {
	op  string
	lhs Evaluator
	rhs Evaluator
}

func NewCompareRelative(lhs, rhs Evaluator, op string) *Compare {
	return &Compare{op, lhs, rhs}
}

func (c *Compare) Eval(f *Frame) shesmu.Value {
	cmp := compareNumbers(c.lhs.Eval(f), c.rhs.Eval(f))
	switch c.op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	}
	return cmp >= 0
}

// compareNumbers compares like shesmu.Compare but promotes mixed integer
// and float operands.
func compareNumbers(a, b shesmu.Value) int {
	switch a := a.(type) {
	case int64:
		if b, ok := b.(float64); ok {
			return shesmu.Compare(float64(a), b)
		}
	case float64:
		if b, ok := b.(int64); ok {
			return shesmu.Compare(a, float64(b))
		}
	}
	return shesmu.Compare(a, b)
}

// In tests membership of an element in a list.
type In struct {
	elem Evaluator
	list Evaluator
}

func NewIn(elem, list Evaluator) *In {
	return &In{elem, list}
}

func (i *In) Eval(f *Frame) shesmu.Value {
	elem := i.elem.Eval(f)
	for _, v := range i.list.Eval(f).(shesmu.List) {
		if shesmu.Equal(elem, v) {
			return true
		}
	}
	return false
}

type Arith struct {
	op  string
	lhs Evaluator
	rhs Evaluator
	// elem is set when a list operand is combined with a single element.
	elem bool
}

func NewArithmetic(lhs, rhs Evaluator, op string) *Arith {
	return &Arith{op: op, lhs: lhs, rhs: rhs}
}

// NewListArithmetic returns the union or difference of a list with another
// list or, if elem is set, with one element.
func NewListArithmetic(lhs, rhs Evaluator, op string, elem bool) *Arith {
	return &Arith{op, lhs, rhs, elem}
}

func (a *Arith) Eval(f *Frame) shesmu.Value {
	lhs, rhs := a.lhs.Eval(f), a.rhs.Eval(f)
	switch lhs := lhs.(type) {
	case int64:
		switch rhs := rhs.(type) {
		case int64:
			return a.integer(f, lhs, rhs)
		case float64:
			return a.float(float64(lhs), rhs)
		}
	case float64:
		switch rhs := rhs.(type) {
		case int64:
			return a.float(lhs, float64(rhs))
		case float64:
			return a.float(lhs, rhs)
		}
	case time.Time:
		switch rhs := rhs.(type) {
		case int64:
			if a.op == "-" {
				rhs = -rhs
			}
			return lhs.Add(time.Duration(rhs) * time.Second)
		case time.Time:
			return int64(lhs.Sub(rhs) / time.Second)
		}
	case string:
		return lhs + rhs.(string)
	case shesmu.Path:
		var s string
		switch rhs := rhs.(type) {
		case shesmu.Path:
			s = string(rhs)
		case string:
			s = rhs
		}
		if strings.HasPrefix(s, "/") {
			return shesmu.Path(s)
		}
		return shesmu.Path(path.Join(string(lhs), s))
	case shesmu.List:
		return a.set(lhs, rhs)
	}
	panic("expr: arithmetic on mismatched operands")
}

func (a *Arith) integer(f *Frame, lhs, rhs int64) shesmu.Value {
	switch a.op {
	case "+":
		return lhs + rhs
	case "-":
		return lhs - rhs
	case "*":
		return lhs * rhs
	}
	if rhs == 0 {
		f.Fail(ErrDivideByZero)
		return int64(0)
	}
	if a.op == "/" {
		return lhs / rhs
	}
	return lhs % rhs
}

func (a *Arith) float(lhs, rhs float64) shesmu.Value {
	switch a.op {
	case "+":
		return lhs + rhs
	case "-":
		return lhs - rhs
	case "*":
		return lhs * rhs
	}
	return lhs / rhs
}

// set computes the union or difference of a list with a list or a
// single element.
func (a *Arith) set(lhs shesmu.List, rhs shesmu.Value) shesmu.Value {
	other := shesmu.List{rhs}
	if !a.elem {
		other = rhs.(shesmu.List)
	}
	b := shesmu.NewListBuilder()
	if a.op == "+" {
		for _, v := range lhs {
			b.Add(v)
		}
		for _, v := range other {
			b.Add(v)
		}
		return b.List()
	}
	remove := shesmu.NewListBuilder()
	for _, v := range other {
		remove.Add(v)
	}
	for _, v := range lhs {
		// A value already in remove is dropped.
		if remove.Add(v) {
			b.Add(v)
		}
	}
	return b.List()
}

type Negate struct {
	expr Evaluator
}

func NewNegate(e Evaluator) *Negate {
	return &Negate{e}
}

func (n *Negate) Eval(f *Frame) shesmu.Value {
	switch v := n.expr.Eval(f).(type) {
	case int64:
		return -v
	case float64:
		return -v
	}
	panic("expr: negation of non-number")
}

type Conditional struct {
	predicate Evaluator
	thenExpr  Evaluator
	elseExpr  Evaluator
}

func NewConditional(predicate, thenExpr, elseExpr Evaluator) *Conditional {
	return &Conditional{predicate, thenExpr, elseExpr}
}

func (c *Conditional) Eval(f *Frame) shesmu.Value {
	if c.predicate.Eval(f).(bool) {
		return c.thenExpr.Eval(f)
	}
	return c.elseExpr.Eval(f)
}
