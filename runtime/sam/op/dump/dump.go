// Package dump implements the Dump clause.
package dump

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/sbuf"
)

// Op writes a row of values per record to a dumper and passes the record
// through unchanged.
type Op struct {
	parent sbuf.Puller
	frame  *expr.Frame
	dumper definitions.Dumper
	names  []string
	types  []shesmu.Type
	exprs  []expr.Evaluator
}

func New(parent sbuf.Puller, frame *expr.Frame, dumper definitions.Dumper, names []string, types []shesmu.Type, exprs []expr.Evaluator) *Op {
	return &Op{parent, frame, dumper, names, types, exprs}
}

func (o *Op) Pull(done bool) (sbuf.Batch, error) {
	batch, err := o.parent.Pull(done)
	if batch == nil || err != nil {
		return nil, err
	}
	for _, rec := range batch.Values() {
		o.frame.Load(rec)
		vals := make([]shesmu.Value, 0, len(o.exprs))
		for _, e := range o.exprs {
			vals = append(vals, e.Eval(o.frame))
		}
		if err := o.frame.Err(); err != nil {
			return nil, err
		}
		if err := o.dumper.Dump(o.names, o.types, vals); err != nil {
			return nil, err
		}
	}
	return batch, nil
}
