package expr

import (
	"github.com/oicr-gsi/shesmu"
)

type Literal struct {
	val shesmu.Value
}

var _ Evaluator = (*Literal)(nil)

func NewLiteral(val shesmu.Value) *Literal {
	return &Literal{val}
}

func (l Literal) Eval(*Frame) shesmu.Value {
	return l.val
}
