package expr

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
)

// Call invokes a registered function.
type Call struct {
	fn    definitions.Func
	exprs []Evaluator
}

func NewCall(fn definitions.Func, exprs []Evaluator) *Call {
	return &Call{fn, exprs}
}

func (c *Call) Eval(f *Frame) shesmu.Value {
	// Arguments may call c again so each call has its own slice.
	args := make([]shesmu.Value, len(c.exprs))
	for i, e := range c.exprs {
		args[i] = e.Eval(f)
	}
	return c.fn(args)
}

// Func is a function declared in an olive file.  Its parameters occupy
// the first local slots.
type Func struct {
	Name   string
	Body   Evaluator
	Locals int
}

type FuncCall struct {
	slot  int
	exprs []Evaluator
}

func NewFuncCall(slot int, exprs []Evaluator) *FuncCall {
	return &FuncCall{slot, exprs}
}

func (c *FuncCall) Eval(f *Frame) shesmu.Value {
	fn := f.Env.Funcs[c.slot]
	inner := NewFrame(f.Env, fn.Locals)
	for i, e := range c.exprs {
		inner.Locals[i] = e.Eval(f)
	}
	v := fn.Body.Eval(inner)
	if err := inner.Err(); err != nil {
		f.Fail(err)
	}
	return v
}
