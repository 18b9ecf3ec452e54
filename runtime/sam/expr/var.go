package expr

import (
	"github.com/oicr-gsi/shesmu"
)

// StreamVar reads a slot of the current stream record.
type StreamVar int

var _ Evaluator = (*StreamVar)(nil)

func (v StreamVar) Eval(f *Frame) shesmu.Value {
	return f.Record[v]
}

type LocalVar int

func (v LocalVar) Eval(f *Frame) shesmu.Value {
	return f.Locals[v]
}

type ParamVar int

func (v ParamVar) Eval(f *Frame) shesmu.Value {
	return f.Params[v]
}

type ConstVar int

func (v ConstVar) Eval(f *Frame) shesmu.Value {
	return f.Env.Consts[v]
}

// SignatureVar reads a signature of the record's origin.
type SignatureVar int

func (v SignatureVar) Eval(f *Frame) shesmu.Value {
	return f.Env.Sigs.Value(f.Origin, int(v))
}
