// Package unnest implements the Flatten clause.
package unnest

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/sbuf"
)

// Op emits one record per element of a list or optional.  Each output
// record is the input record widened to width slots with the element
// bound into the new slots.
type Op struct {
	parent   sbuf.Puller
	frame    *expr.Frame
	expr     expr.Evaluator
	optional bool
	bind     expr.Binder
	width    int
}

func New(parent sbuf.Puller, frame *expr.Frame, e expr.Evaluator, optional bool, bind expr.Binder, width int) *Op {
	return &Op{
		parent:   parent,
		frame:    frame,
		expr:     e,
		optional: optional,
		bind:     bind,
		width:    width,
	}
}

func (o *Op) Pull(done bool) (sbuf.Batch, error) {
	for {
		batch, err := o.parent.Pull(done)
		if batch == nil || err != nil {
			return nil, err
		}
		var out []sbuf.Record
		for _, rec := range batch.Values() {
			o.frame.Load(rec)
			v := o.expr.Eval(o.frame)
			if err := o.frame.Err(); err != nil {
				return nil, err
			}
			for _, elem := range o.elems(v) {
				vals := make([]shesmu.Value, o.width)
				copy(vals, rec.Values)
				o.bind.Bind(vals, elem)
				out = append(out, rec.Derive(vals))
			}
		}
		if len(out) > 0 {
			return sbuf.NewBatch(out), nil
		}
	}
}

func (o *Op) elems(v shesmu.Value) []shesmu.Value {
	if o.optional {
		if opt := v.(shesmu.Optional); opt.Valid {
			return []shesmu.Value{opt.V}
		}
		return nil
	}
	return v.(shesmu.List)
}
