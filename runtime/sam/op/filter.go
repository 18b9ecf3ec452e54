package op

import (
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/sbuf"
)

type filter struct {
	parent sbuf.Puller
	frame  *expr.Frame
	expr   expr.Evaluator
}

func NewFilter(parent sbuf.Puller, frame *expr.Frame, e expr.Evaluator) sbuf.Puller {
	return &filter{parent, frame, e}
}

func (f *filter) Pull(done bool) (sbuf.Batch, error) {
	for {
		batch, err := f.parent.Pull(done)
		if batch == nil || err != nil {
			return nil, err
		}
		var out []sbuf.Record
		for _, rec := range batch.Values() {
			f.frame.Load(rec)
			keep := f.expr.Eval(f.frame)
			if err := f.frame.Err(); err != nil {
				return nil, err
			}
			if keep.(bool) {
				out = append(out, rec)
			}
		}
		if len(out) > 0 {
			return sbuf.NewBatch(out), nil
		}
	}
}
