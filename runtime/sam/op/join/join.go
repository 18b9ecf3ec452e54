// Package join implements the LeftJoin clause.
package join

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/runtime/sam/op"
	"github.com/oicr-gsi/shesmu/sbuf"
)

// Op collects, for each outer record, the rows formed by the outer record
// followed by every inner record with an equal key.  An outer record with
// no match still produces an output record unless an unwrapped collector
// is empty.  Inner records are read once, on the first Pull.
type Op struct {
	parent  sbuf.Puller
	frame   *expr.Frame
	format  string
	sigs    *expr.Signatures
	outer   expr.Evaluator
	inner   expr.Evaluator
	where   expr.Evaluator
	outputs []op.Output
	keep    []int
	index   map[string][][]shesmu.Value
	key     []byte
}

func New(parent sbuf.Puller, frame *expr.Frame, format string, sigs *expr.Signatures, outer, inner, where expr.Evaluator, outputs []op.Output, keep []int) *Op {
	return &Op{
		parent:  parent,
		frame:   frame,
		format:  format,
		sigs:    sigs,
		outer:   outer,
		inner:   inner,
		where:   where,
		outputs: outputs,
		keep:    keep,
	}
}

func (o *Op) Pull(done bool) (sbuf.Batch, error) {
	if o.index == nil && !done {
		if err := o.load(); err != nil {
			return nil, err
		}
	}
	for {
		batch, err := o.parent.Pull(done)
		if batch == nil || err != nil {
			o.index = nil
			return nil, err
		}
		var out []sbuf.Record
		for _, rec := range batch.Values() {
			vals, ok, err := o.join(rec)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, sbuf.Record{Values: vals})
			}
		}
		if len(out) > 0 {
			return sbuf.NewBatch(out), nil
		}
	}
}

func (o *Op) load() error {
	recs, err := o.frame.Env.Inputs.Records(o.format)
	if err != nil {
		return err
	}
	o.index = make(map[string][][]shesmu.Value)
	o.frame.Origin = nil
	for _, rec := range recs {
		row := o.sigs.Append(rec)
		o.frame.Record = row
		o.key = shesmu.AppendKey(o.key[:0], o.inner.Eval(o.frame))
		o.index[string(o.key)] = append(o.index[string(o.key)], row)
	}
	return o.frame.Err()
}

func (o *Op) join(rec sbuf.Record) ([]shesmu.Value, bool, error) {
	o.frame.Load(rec)
	o.key = shesmu.AppendKey(o.key[:0], o.outer.Eval(o.frame))
	row := op.NewRow(o.frame, o.outputs)
	for _, inner := range o.index[string(o.key)] {
		merged := make([]shesmu.Value, 0, len(rec.Values)+len(inner))
		merged = append(merged, rec.Values...)
		merged = append(merged, inner...)
		o.frame.Record = merged
		if o.where != nil && !o.where.Eval(o.frame).(bool) {
			continue
		}
		row.Consume(o.frame, o.outputs)
	}
	o.frame.Load(rec)
	vals := make([]shesmu.Value, 0, len(o.keep)+len(o.outputs))
	for _, slot := range o.keep {
		vals = append(vals, rec.Values[slot])
	}
	vals, ok := row.Results(o.frame, o.outputs, vals)
	if err := o.frame.Err(); err != nil {
		return nil, false, err
	}
	return vals, ok, nil
}
