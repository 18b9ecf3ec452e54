package op

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/sbuf"
)

// applier replaces each record with the values of exprs.  The new record
// keeps the origin of the old one.
type applier struct {
	parent sbuf.Puller
	frame  *expr.Frame
	exprs  []expr.Evaluator
}

func NewApplier(parent sbuf.Puller, frame *expr.Frame, exprs []expr.Evaluator) sbuf.Puller {
	return &applier{
		parent: parent,
		frame:  frame,
		exprs:  exprs,
	}
}

func (a *applier) Pull(done bool) (sbuf.Batch, error) {
	batch, err := a.parent.Pull(done)
	if batch == nil || err != nil {
		return nil, err
	}
	in := batch.Values()
	out := make([]sbuf.Record, 0, len(in))
	for _, rec := range in {
		a.frame.Load(rec)
		vals := make([]shesmu.Value, 0, len(a.exprs))
		for _, e := range a.exprs {
			vals = append(vals, e.Eval(a.frame))
		}
		if err := a.frame.Err(); err != nil {
			return nil, err
		}
		out = append(out, rec.Derive(vals))
	}
	return sbuf.NewBatch(out), nil
}
