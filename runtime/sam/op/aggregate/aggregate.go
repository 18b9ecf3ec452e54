// Package aggregate implements the Group clause.
package aggregate

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/runtime/sam/op"
	"github.com/oicr-gsi/shesmu/sbuf"
)

// Op consumes its whole input then emits one record per distinct key, in
// order of first appearance.  Output records have no origin.
type Op struct {
	parent  sbuf.Puller
	frame   *expr.Frame
	keys    []expr.Evaluator
	outputs []op.Output
	table   map[string]*group
	groups  []*group
	key     []byte
	eos     bool
}

type group struct {
	keys []shesmu.Value
	row  op.Row
}

func New(parent sbuf.Puller, frame *expr.Frame, keys []expr.Evaluator, outputs []op.Output) *Op {
	return &Op{
		parent:  parent,
		frame:   frame,
		keys:    keys,
		outputs: outputs,
		table:   make(map[string]*group),
	}
}

func (o *Op) Pull(done bool) (sbuf.Batch, error) {
	if done {
		o.reset()
		return o.parent.Pull(true)
	}
	if o.eos {
		o.reset()
		return nil, nil
	}
	for {
		batch, err := o.parent.Pull(false)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			o.eos = true
			return o.result()
		}
		for _, rec := range batch.Values() {
			if err := o.consume(rec); err != nil {
				return nil, err
			}
		}
	}
}

func (o *Op) consume(rec sbuf.Record) error {
	o.frame.Load(rec)
	keys := make([]shesmu.Value, 0, len(o.keys))
	o.key = o.key[:0]
	for _, e := range o.keys {
		v := e.Eval(o.frame)
		keys = append(keys, v)
		o.key = shesmu.AppendKey(o.key, v)
	}
	g, ok := o.table[string(o.key)]
	if !ok {
		g = &group{keys: keys, row: op.NewRow(o.frame, o.outputs)}
		o.table[string(o.key)] = g
		o.groups = append(o.groups, g)
	}
	g.row.Consume(o.frame, o.outputs)
	return o.frame.Err()
}

func (o *Op) result() (sbuf.Batch, error) {
	var out []sbuf.Record
	for _, g := range o.groups {
		vals := make([]shesmu.Value, len(g.keys), len(g.keys)+len(o.outputs))
		copy(vals, g.keys)
		vals, ok := g.row.Results(o.frame, o.outputs, vals)
		if err := o.frame.Err(); err != nil {
			return nil, err
		}
		if ok {
			out = append(out, sbuf.Record{Values: vals})
		}
	}
	o.table = make(map[string]*group)
	o.groups = nil
	if len(out) == 0 {
		o.eos = false
		return nil, nil
	}
	return sbuf.NewBatch(out), nil
}

func (o *Op) reset() {
	o.eos = false
	o.table = make(map[string]*group)
	o.groups = nil
}
