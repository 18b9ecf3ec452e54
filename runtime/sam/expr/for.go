package expr

import (
	"slices"

	"github.com/oicr-gsi/shesmu"
)

// For collects the items of a source after the list operations.  Items
// are materialized between operations, each stage binding its items with
// the binder in effect for that stage.
type For struct {
	source Source
	bind   Binder
	ops    []ListOp
	coll   *Aggregator
}

func NewFor(source Source, bind Binder, ops []ListOp, coll *Aggregator) *For {
	return &For{source, bind, ops, coll}
}

func (e *For) Eval(f *Frame) shesmu.Value {
	items := e.source.Items(f)
	bind := e.bind
	for _, op := range e.ops {
		bind, items = op.Apply(f, bind, items)
	}
	fn := e.coll.NewFunction(f)
	for _, item := range items {
		bind.Bind(f.Locals, item)
		e.coll.Apply(f, fn)
	}
	return e.coll.Result(f, fn)
}

type Source interface {
	Items(*Frame) []shesmu.Value
}

type ListSource struct {
	expr Evaluator
}

func NewListSource(e Evaluator) *ListSource {
	return &ListSource{e}
}

func (s *ListSource) Items(f *Frame) []shesmu.Value {
	return s.expr.Eval(f).(shesmu.List)
}

type OptionalSource struct {
	expr Evaluator
}

func NewOptionalSource(e Evaluator) *OptionalSource {
	return &OptionalSource{e}
}

func (s *OptionalSource) Items(f *Frame) []shesmu.Value {
	if o := s.expr.Eval(f).(shesmu.Optional); o.Valid {
		return []shesmu.Value{o.V}
	}
	return nil
}

// RangeSource yields the integers of the half-open interval [from, to).
type RangeSource struct {
	from Evaluator
	to   Evaluator
}

func NewRangeSource(from, to Evaluator) *RangeSource {
	return &RangeSource{from, to}
}

func (s *RangeSource) Items(f *Frame) []shesmu.Value {
	from, to := s.from.Eval(f).(int64), s.to.Eval(f).(int64)
	var out []shesmu.Value
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

// InputSource yields the records of an input format as objects.  Fields
// maps each canonical object field to its record slot.
type InputSource struct {
	format string
	fields []int
}

func NewInputSource(format string, fields []int) *InputSource {
	return &InputSource{format, fields}
}

func (s *InputSource) Items(f *Frame) []shesmu.Value {
	recs, err := f.Env.Inputs.Records(s.format)
	if err != nil {
		f.Fail(err)
		return nil
	}
	out := make([]shesmu.Value, 0, len(recs))
	for _, rec := range recs {
		obj := make(shesmu.Object, 0, len(s.fields))
		for _, slot := range s.fields {
			obj = append(obj, rec[slot])
		}
		out = append(out, obj)
	}
	return out
}

// ListOp rewrites the items of a For and returns the binder for the
// rewritten items.
type ListOp interface {
	Apply(f *Frame, bind Binder, items []shesmu.Value) (Binder, []shesmu.Value)
}

type Where struct {
	expr Evaluator
}

func NewWhere(e Evaluator) *Where {
	return &Where{e}
}

func (w *Where) Apply(f *Frame, bind Binder, items []shesmu.Value) (Binder, []shesmu.Value) {
	var out []shesmu.Value
	for _, item := range items {
		bind.Bind(f.Locals, item)
		if w.expr.Eval(f).(bool) {
			out = append(out, item)
		}
	}
	return bind, out
}

type Let struct {
	bind Binder
	expr Evaluator
}

func NewLet(bind Binder, e Evaluator) *Let {
	return &Let{bind, e}
}

func (l *Let) Apply(f *Frame, bind Binder, items []shesmu.Value) (Binder, []shesmu.Value) {
	out := make([]shesmu.Value, 0, len(items))
	for _, item := range items {
		bind.Bind(f.Locals, item)
		out = append(out, l.expr.Eval(f))
	}
	return l.bind, out
}

// Sort orders items by key, keeping the order of equal keys.
type Sort struct {
	expr Evaluator
}

func NewSort(e Evaluator) *Sort {
	return &Sort{e}
}

func (s *Sort) Apply(f *Frame, bind Binder, items []shesmu.Value) (Binder, []shesmu.Value) {
	type keyed struct {
		key  shesmu.Value
		item shesmu.Value
	}
	tmp := make([]keyed, 0, len(items))
	for _, item := range items {
		bind.Bind(f.Locals, item)
		tmp = append(tmp, keyed{s.expr.Eval(f), item})
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		return shesmu.Compare(a.key, b.key)
	})
	out := make([]shesmu.Value, 0, len(tmp))
	for _, k := range tmp {
		out = append(out, k.item)
	}
	return bind, out
}

type Reverse struct{}

func (Reverse) Apply(_ *Frame, bind Binder, items []shesmu.Value) (Binder, []shesmu.Value) {
	out := slices.Clone(items)
	slices.Reverse(out)
	return bind, out
}

type Distinct struct{}

func (Distinct) Apply(_ *Frame, bind Binder, items []shesmu.Value) (Binder, []shesmu.Value) {
	return bind, shesmu.NewList(items...)
}

// Flatten replaces each item with the items of an inner source.
type Flatten struct {
	bind   Binder
	source Source
}

func NewFlatten(bind Binder, source Source) *Flatten {
	return &Flatten{bind, source}
}

func (l *Flatten) Apply(f *Frame, bind Binder, items []shesmu.Value) (Binder, []shesmu.Value) {
	var out []shesmu.Value
	for _, item := range items {
		bind.Bind(f.Locals, item)
		out = append(out, l.source.Items(f)...)
	}
	return l.bind, out
}

// Sampler takes its share of the items left over by the samplers before
// it.
type Sampler struct {
	Squish bool
	Count  Evaluator
	While  Evaluator
}

type Subsample struct {
	samplers []Sampler
}

func NewSubsample(samplers []Sampler) *Subsample {
	return &Subsample{samplers}
}

func (s *Subsample) Apply(f *Frame, bind Binder, items []shesmu.Value) (Binder, []shesmu.Value) {
	var out []shesmu.Value
	rest := items
	for _, sampler := range s.samplers {
		n := int(max(sampler.Count.Eval(f).(int64), 0))
		if sampler.Squish {
			out = append(out, squish(rest, n)...)
			rest = nil
			continue
		}
		taken := 0
		for taken < n && taken < len(rest) {
			if sampler.While != nil {
				bind.Bind(f.Locals, rest[taken])
				if !sampler.While.Eval(f).(bool) {
					break
				}
			}
			taken++
		}
		out = append(out, rest[:taken]...)
		rest = rest[taken:]
	}
	return bind, out
}

// squish picks n items spread evenly over items, always including the
// first.
func squish(items []shesmu.Value, n int) []shesmu.Value {
	if len(items) <= n {
		return items
	}
	out := make([]shesmu.Value, 0, n)
	for i := range n {
		out = append(out, items[i*len(items)/n])
	}
	return out
}
