// Package sam is the reference target for analyzed olives: it interprets
// them as a chain of pullers over the records of the input format.
package sam

import (
	"fmt"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/compiler/rungen"
	"github.com/oicr-gsi/shesmu/runtime"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/runtime/sam/op"
	"github.com/oicr-gsi/shesmu/runtime/sam/op/aggregate"
	"github.com/oicr-gsi/shesmu/runtime/sam/op/dump"
	"github.com/oicr-gsi/shesmu/runtime/sam/op/emit"
	"github.com/oicr-gsi/shesmu/runtime/sam/op/join"
	"github.com/oicr-gsi/shesmu/runtime/sam/op/unnest"
	"github.com/oicr-gsi/shesmu/sbuf"
)

// Program holds the compiled constants and functions of a dag.Program.
// It is immutable and may be shared by concurrent olive runs.
type Program struct {
	*dag.Program
	reg    *definitions.Registry
	consts []constant
	funcs  []*expr.Func
}

type constant struct {
	name   string
	expr   expr.Evaluator
	locals int
}

func NewProgram(prog *dag.Program, reg *definitions.Registry) (*Program, error) {
	p := &Program{Program: prog, reg: reg}
	c := &exprCompiler{reg: reg}
	for _, def := range prog.Consts {
		e, err := c.compileExpr(def.Expr)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", def.Name, err)
		}
		p.consts = append(p.consts, constant{def.Name, e, def.Locals})
	}
	for _, def := range prog.Funcs {
		body, err := c.compileExpr(def.Body)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", def.Name, err)
		}
		p.funcs = append(p.funcs, &expr.Func{Name: def.Name, Body: body, Locals: def.Locals})
	}
	return p, nil
}

// Env evaluates the constants of the program for one olive run.
func (p *Program) Env(inputs expr.Inputs) (*expr.Env, error) {
	env := &expr.Env{Funcs: p.funcs, Inputs: inputs}
	for _, c := range p.consts {
		f := expr.NewFrame(env, c.locals)
		v := c.expr.Eval(f)
		if err := f.Err(); err != nil {
			return nil, fmt.Errorf("constant %s: %w", c.name, err)
		}
		env.Consts = append(env.Consts, v)
	}
	return env, nil
}

// Build lowers olive onto a puller chain reading source and emitting
// actions into sink.
func (p *Program) Build(rctx *runtime.Context, olive *dag.Olive, env *expr.Env, source sbuf.Puller, sink action.Sink) (runtime.Query, error) {
	progress := new(sbuf.Progress)
	b := &Builder{
		exprCompiler: exprCompiler{reg: p.reg},
		rctx:         rctx,
		olive:        olive,
		env:          env,
		sink:         sink,
		progress:     progress,
		puller:       sbuf.Meter(source, progress),
	}
	if err := rungen.Lower(olive, b); err != nil {
		return nil, fmt.Errorf("olive %s: %w", olive.Name, err)
	}
	return &query{op.NewCatcher(b.puller), progress}, nil
}

type query struct {
	sbuf.Puller
	progress *sbuf.Progress
}

func (q *query) Progress() *sbuf.Progress {
	return q.progress
}

// Builder implements rungen.Target by stacking an operator on its puller
// for every operation.
type Builder struct {
	exprCompiler
	rctx     *runtime.Context
	olive    *dag.Olive
	env      *expr.Env
	sink     action.Sink
	progress *sbuf.Progress
	puller   sbuf.Puller
	sigs     []*dag.SignatureDef
	// params is the stack of Define arguments; the top is visible to the
	// operations being built.
	params [][]shesmu.Value
}

var _ rungen.Target = (*Builder)(nil)

func (b *Builder) newFrame() *expr.Frame {
	f := expr.NewFrame(b.env, b.olive.Locals)
	if n := len(b.params); n > 0 {
		f.Params = b.params[n-1]
	}
	return f
}

func (b *Builder) Signature(slot int, def *dag.SignatureDef) error {
	if slot != len(b.sigs) {
		return fmt.Errorf("signature %s out of order", def.Name)
	}
	if def.Def == nil || def.Def.Signer == nil {
		return fmt.Errorf("signature %s has no signer", def.Name)
	}
	b.sigs = append(b.sigs, def)
	b.env.Sigs = expr.NewSignatures(b.sigs)
	return nil
}

func (b *Builder) Filter(f *dag.FilterOp) error {
	e, err := b.compileExpr(f.Expr)
	if err != nil {
		return err
	}
	b.puller = op.NewFilter(b.puller, b.newFrame(), e)
	return nil
}

func (b *Builder) Map(l *dag.LetOp) error {
	exprs := make([]expr.Evaluator, 0, len(l.Assigns))
	for _, a := range l.Assigns {
		e, err := b.compileExpr(a.Expr)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Name, err)
		}
		exprs = append(exprs, e)
	}
	b.puller = op.NewApplier(b.puller, b.newFrame(), exprs)
	return nil
}

func (b *Builder) Flatten(f *dag.FlattenOp) error {
	e, err := b.compileExpr(f.Expr)
	if err != nil {
		return err
	}
	b.puller = unnest.New(b.puller, b.newFrame(), e, f.Optional, compileBinder(f.Bind), f.Width)
	return nil
}

func (b *Builder) Group(g *dag.GroupOp) error {
	keys := make([]expr.Evaluator, 0, len(g.Keys))
	for _, k := range g.Keys {
		e, err := b.compileExpr(k.Expr)
		if err != nil {
			return fmt.Errorf("%s: %w", k.Name, err)
		}
		keys = append(keys, e)
	}
	outputs, err := b.compileOutputs(g.Outputs)
	if err != nil {
		return err
	}
	b.puller = aggregate.New(b.puller, b.newFrame(), keys, outputs)
	return nil
}

func (b *Builder) Join(j *dag.JoinOp) error {
	outer, err := b.compileExpr(j.Outer)
	if err != nil {
		return err
	}
	inner, err := b.compileExpr(j.Inner)
	if err != nil {
		return err
	}
	where, err := b.compileOptExpr(j.Where)
	if err != nil {
		return err
	}
	outputs, err := b.compileOutputs(j.Outputs)
	if err != nil {
		return err
	}
	sigs := expr.NewSignatures(j.Signatures)
	b.puller = join.New(b.puller, b.newFrame(), j.Format, sigs, outer, inner, where, outputs, j.Keep)
	return nil
}

func (b *Builder) Dump(d *dag.DumpOp) error {
	dumper, ok := b.reg.Dumper(d.Dumper)
	if !ok {
		return fmt.Errorf("no dumper named %q", d.Dumper)
	}
	exprs, err := b.compileExprs(d.Exprs)
	if err != nil {
		return err
	}
	b.puller = dump.New(b.puller, b.newFrame(), dumper, d.Names, d.Types, exprs)
	return nil
}

// BeginCall evaluates the arguments of a Define once, before any record
// is read.
func (b *Builder) BeginCall(c *dag.CallOp) error {
	args, err := b.compileExprs(c.Args)
	if err != nil {
		return err
	}
	f := b.newFrame()
	vals := make([]shesmu.Value, 0, len(args))
	for _, a := range args {
		vals = append(vals, a.Eval(f))
	}
	if err := f.Err(); err != nil {
		return fmt.Errorf("call %s: %w", c.Name, err)
	}
	b.params = append(b.params, vals)
	return nil
}

func (b *Builder) EndCall(*dag.CallOp) error {
	b.params = b.params[:len(b.params)-1]
	return nil
}

func (b *Builder) Action(a *dag.ActionOp) error {
	params := make([]emit.Param, 0, len(a.Params))
	for _, p := range a.Params {
		e, err := b.compileExpr(p.Expr)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		params = append(params, emit.Param{
			Param: action.Param{Name: p.Name, Type: p.Expr.TypeOf()},
			Expr:  e,
		})
	}
	template := emit.Template{
		Kind:        a.Name,
		Olive:       b.olive.Name,
		Description: b.olive.Description,
		Tags:        b.olive.Tags,
	}
	b.puller = emit.New(b.rctx, b.puller, b.newFrame(), template, params, b.sink, b.progress)
	return nil
}

func (b *Builder) compileOutputs(outs []dag.Output) ([]op.Output, error) {
	outputs := make([]op.Output, 0, len(outs))
	for _, o := range outs {
		where, err := b.compileOptExpr(o.Where)
		if err != nil {
			return nil, err
		}
		agg, err := b.compileCollector(o.Collector)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.Name, err)
		}
		outputs = append(outputs, op.Output{Where: where, Agg: agg, Unwrap: o.Unwrap})
	}
	return outputs, nil
}

// Inputs serves For In Input sources and LeftJoin from fixed records.
type Inputs map[string][][]shesmu.Value

func (i Inputs) Records(format string) ([][]shesmu.Value, error) {
	recs, ok := i[format]
	if !ok {
		return nil, fmt.Errorf("no records for input format %q", format)
	}
	return recs, nil
}

// Source returns a puller over fixed input records.
func Source(recs [][]shesmu.Value) sbuf.Puller {
	out := make([]sbuf.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, sbuf.NewRecord(r))
	}
	return sbuf.NewPuller(sbuf.NewBatch(out))
}
