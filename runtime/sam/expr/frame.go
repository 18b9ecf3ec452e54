// Package expr evaluates analyzed expressions against the stream record
// and local variables of an olive.
package expr

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/sbuf"
)

type Evaluator interface {
	Eval(*Frame) shesmu.Value
}

// Inputs supplies the records of other input formats to For In Input
// sources.
type Inputs interface {
	Records(format string) ([][]shesmu.Value, error)
}

// Env is shared by every evaluation of one olive run.
type Env struct {
	Consts []shesmu.Value
	Funcs  []*Func
	Inputs Inputs
	Sigs   *Signatures
}

// Frame is the evaluation state of one record.  Errors do not interrupt
// evaluation; the first error is recorded and the caller checks Err once
// the value is computed.
type Frame struct {
	Env    *Env
	Record []shesmu.Value
	Origin *sbuf.Origin
	Locals []shesmu.Value
	// Params holds the arguments of the Define being run.
	Params []shesmu.Value
	err    error
}

func NewFrame(env *Env, locals int) *Frame {
	return &Frame{Env: env, Locals: make([]shesmu.Value, locals)}
}

// Load points f at rec.
func (f *Frame) Load(rec sbuf.Record) {
	f.Record = rec.Values
	f.Origin = rec.Origin
}

func (f *Frame) Fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// Err returns and clears the recorded error.
func (f *Frame) Err() error {
	err := f.err
	f.err = nil
	return err
}
