// Package emit builds the action of an olive for every record that
// reaches the end of its clauses and hands it to a sink.
package emit

import (
	"github.com/oicr-gsi/shesmu/action"
	"github.com/oicr-gsi/shesmu/runtime"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/sbuf"
	"go.uber.org/zap"
)

// Template is the constant part of every action an olive emits.
type Template struct {
	Kind        string
	Olive       string
	Description string
	Tags        []string
}

type Param struct {
	action.Param
	Expr expr.Evaluator
}

// Op passes records through after emitting their actions.  Duplicate
// actions count as matched records but not as new actions.
type Op struct {
	rctx     *runtime.Context
	parent   sbuf.Puller
	frame    *expr.Frame
	template Template
	params   []Param
	sink     action.Sink
	progress *sbuf.Progress
}

func New(rctx *runtime.Context, parent sbuf.Puller, frame *expr.Frame, template Template, params []Param, sink action.Sink, progress *sbuf.Progress) *Op {
	return &Op{
		rctx:     rctx,
		parent:   parent,
		frame:    frame,
		template: template,
		params:   params,
		sink:     sink,
		progress: progress,
	}
}

func (o *Op) Pull(done bool) (sbuf.Batch, error) {
	batch, err := o.parent.Pull(done)
	if batch == nil || err != nil {
		return nil, err
	}
	for _, rec := range batch.Values() {
		a, err := o.build(rec)
		if err != nil {
			return nil, err
		}
		added, err := o.sink.Emit(o.rctx, a)
		if err != nil {
			return nil, err
		}
		o.progress.RecordsMatched.Add(1)
		if added {
			o.progress.Actions.Add(1)
			o.rctx.Logger.Debug("action",
				zap.String("olive", a.Olive),
				zap.String("kind", a.Kind),
				zap.Stringer("fingerprint", a.Fingerprint()))
		}
	}
	return batch, nil
}

func (o *Op) build(rec sbuf.Record) (*action.Action, error) {
	o.frame.Load(rec)
	params := make([]action.Param, 0, len(o.params))
	for _, p := range o.params {
		param := p.Param
		param.Value = p.Expr.Eval(o.frame)
		params = append(params, param)
	}
	if err := o.frame.Err(); err != nil {
		return nil, err
	}
	return &action.Action{
		Kind:        o.template.Kind,
		Olive:       o.template.Olive,
		Description: o.template.Description,
		Tags:        o.template.Tags,
		Params:      params,
	}, nil
}
