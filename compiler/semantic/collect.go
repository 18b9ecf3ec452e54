package semantic

import (
	"fmt"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
	"github.com/oicr-gsi/shesmu/order"
)

func (a *analyzer) forExpr(scope *Scope, e *ast.ForExpr) dag.Expr {
	saved := a.locals.next
	defer func() { a.locals.next = saved }()
	src, itemType, ordering := a.source(scope, e.Source)
	item := NewScope(scope)
	bind := a.bindLocal(item, e.Pattern, itemType)
	ops, item, ok := a.listOps(scope, item, e.Ops, ordering)
	coll := a.collector(scope, item, e.Collector)
	if !ok || src == nil || bind == nil || shesmu.IsBad(coll.TypeOf()) {
		return badExpr()
	}
	return &dag.ForExpr{Kind: "ForExpr", Source: src, Bind: bind, Ops: ops, Collector: coll}
}

// source returns the iteration source with its item type and ordering or
// a nil source if it is bad.
func (a *analyzer) source(scope *Scope, s ast.Source) (dag.Source, shesmu.Type, order.Ordering) {
	switch s := s.(type) {
	case *ast.ContainerSource:
		e := a.expr(scope, s.Expr)
		typ := e.TypeOf()
		switch typ.Kind() {
		case shesmu.ListKind:
			return &dag.ContainerSource{Kind: "ContainerSource", Expr: e}, shesmu.Inner(typ), order.Random
		case shesmu.OptionalKind:
			return &dag.ContainerSource{Kind: "ContainerSource", Expr: e, Optional: true}, shesmu.Inner(typ), order.Random
		}
		a.typeError(s.Expr, "list or optional", typ)
		return nil, shesmu.TypeBad, order.Random
	case *ast.RangeSource:
		from := a.expr(scope, s.From)
		to := a.expr(scope, s.To)
		fok := a.integer(s.From, from.TypeOf())
		if !a.integer(s.To, to.TypeOf()) || !fok {
			return nil, shesmu.TypeBad, order.Random
		}
		return &dag.RangeSource{Kind: "RangeSource", From: from, To: to}, shesmu.TypeInt, order.SortedAscending
	case *ast.InputSource:
		format := a.reg.Format(s.Format.Name)
		if format == nil {
			a.nameError(s.Format, "unknown input format", s.Format.Name, a.reg.FormatNames())
			return nil, shesmu.TypeBad, order.Random
		}
		a.inputRef(format.Name)
		typ := format.ObjectType()
		return &dag.InputSource{Kind: "InputSource", Format: format.Name, Type: typ}, typ, order.InputOrder
	}
	panic(fmt.Sprintf("semantic: unknown source %T", s))
}

func (a *analyzer) inputRef(format string) {
	if a.olive != nil {
		a.olive.addInputRef(format)
	}
	for _, f := range a.prog.InputRefs {
		if f == format {
			return
		}
	}
	a.prog.InputRefs = append(a.prog.InputRefs, format)
}

func (a *analyzer) listOps(outer, item *Scope, ops []ast.ListOp, ordering order.Ordering) ([]dag.ListOp, *Scope, bool) {
	var out []dag.ListOp
	ok := true
	consumption := order.Limited
	for _, op := range ops {
		if _, ok := op.(*ast.SubsampleOp); !ok {
			consumption = order.Limited
		}
		switch op := op.(type) {
		case *ast.WhereOp:
			e := a.expr(item, op.Expr)
			ok = a.boolean(op.Expr, e.TypeOf()) && ok
			out = append(out, &dag.WhereOp{Kind: "WhereOp", Expr: e})
		case *ast.LetOp:
			e := a.expr(item, op.Expr)
			item = NewScope(outer)
			bind := a.bindLocal(item, op.Pattern, e.TypeOf())
			ok = bind != nil && ok
			out = append(out, &dag.ListLetOp{Kind: "ListLetOp", Bind: bind, Expr: e})
		case *ast.SortOp:
			e := a.expr(item, op.Expr)
			ok = a.orderable(op.Expr, e.TypeOf()) && ok
			ordering = order.SortedAscending
			out = append(out, &dag.SortOp{Kind: "SortOp", Expr: e})
		case *ast.ReverseOp:
			next, rok := ordering.Reverse()
			if !rok {
				a.error(op, srcfiles.ConsumptionError, "Reverse cannot be applied to an unordered sequence.")
				ok = false
			}
			ordering = next
			out = append(out, &dag.ReverseOp{Kind: "ReverseOp"})
		case *ast.FlattenOp:
			src, typ, _ := a.source(item, op.Source)
			item = NewScope(outer)
			bind := a.bindLocal(item, op.Pattern, typ)
			ok = src != nil && bind != nil && ok
			out = append(out, &dag.ListFlattenOp{Kind: "ListFlattenOp", Bind: bind, Source: src})
		case *ast.DistinctOp:
			out = append(out, &dag.DistinctOp{Kind: "DistinctOp"})
		case *ast.SubsampleOp:
			sub := &dag.SubsampleOp{Kind: "SubsampleOp"}
			for _, s := range op.Samplers {
				var sampler dag.Sampler
				var count ast.Expr
				switch s := s.(type) {
				case *ast.FixedSampler:
					count = s.Count
					sampler.Kind = "Fixed"
					if s.While != nil {
						sampler.While = a.expr(item, s.While)
						ok = a.boolean(s.While, sampler.While.TypeOf()) && ok
					}
				case *ast.SquishSampler:
					count = s.Count
					sampler.Kind = "Squish"
				}
				sampler.Count = a.expr(outer, count)
				ok = a.integer(count, sampler.Count.TypeOf()) && ok
				if consumption == order.Greedy {
					a.error(s, srcfiles.ConsumptionError, "No items will be left to subsample.")
					ok = false
				}
				if sampler.Kind == "Squish" {
					consumption = order.Greedy
				}
				sub.Samplers = append(sub.Samplers, sampler)
			}
			out = append(out, sub)
		default:
			panic(fmt.Sprintf("semantic: unknown list operation %T", op))
		}
	}
	return out, item, ok
}

// collector checks c with item expressions resolved in item and
// per-collection expressions, such as defaults and Reduce initial values,
// resolved in outer.
func (a *analyzer) collector(outer, item *Scope, c ast.Collector) dag.Collector {
	switch c := c.(type) {
	case *ast.CountCollector:
		return &dag.CountCollector{Kind: "CountCollector"}
	case *ast.ListCollector:
		e := a.expr(item, c.Expr)
		return &dag.ListCollector{Kind: "ListCollector", Expr: e, Type: shesmu.NewTypeList(e.TypeOf())}
	case *ast.DictCollector:
		k := a.expr(item, c.Key)
		v := a.expr(item, c.Value)
		return &dag.DictCollector{Kind: "DictCollector", Key: k, Value: v, Type: shesmu.NewTypeMap(k.TypeOf(), v.TypeOf())}
	case *ast.FirstCollector:
		e := a.expr(item, c.Expr)
		def, typ := a.defaulted(outer, c.Default, e.TypeOf())
		return &dag.FirstCollector{Kind: "FirstCollector", Expr: e, Default: def, Type: typ}
	case *ast.UnivaluedCollector:
		e := a.expr(item, c.Expr)
		return &dag.UnivaluedCollector{Kind: "UnivaluedCollector", Expr: e, Type: shesmu.NewTypeOptional(e.TypeOf())}
	case *ast.OptimaCollector:
		e := a.expr(item, c.Expr)
		if !a.orderable(c.Expr, e.TypeOf()) {
			return &dag.OptimaCollector{Kind: "OptimaCollector", Type: shesmu.TypeBad}
		}
		def, typ := a.defaulted(outer, c.Default, e.TypeOf())
		return &dag.OptimaCollector{Kind: "OptimaCollector", Max: c.Max, Expr: e, Default: def, Type: typ}
	case *ast.ReduceCollector:
		initial := a.expr(outer, c.Initial)
		saved := a.locals.next
		defer func() { a.locals.next = saved }()
		acc := NewScope(item)
		bind := a.bindLocal(acc, c.Accumulator, initial.TypeOf())
		e := a.expr(acc, c.Expr)
		typ := shesmu.Unify(initial.TypeOf(), e.TypeOf())
		if shesmu.IsBad(typ) || bind == nil {
			if !shesmu.IsBad(initial.TypeOf()) {
				a.typeError(c.Expr, initial.TypeOf().Name(), e.TypeOf())
			}
			typ = shesmu.TypeBad
		}
		return &dag.ReduceCollector{Kind: "ReduceCollector", Bind: bind, Initial: initial, Expr: e, Type: typ}
	case *ast.PartitionCountCollector:
		e := a.expr(item, c.Expr)
		if !a.boolean(c.Expr, e.TypeOf()) {
			return &dag.ListCollector{Kind: "ListCollector", Type: shesmu.TypeBad}
		}
		return &dag.PartitionCountCollector{Kind: "PartitionCountCollector", Expr: e}
	case *ast.ConcatCollector:
		e := a.expr(item, c.Expr)
		d := a.expr(outer, c.Delimiter)
		dok := a.expect(c.Delimiter, shesmu.TypeString, d.TypeOf())
		if shesmu.IsBad(e.TypeOf()) || !dok {
			return &dag.ListCollector{Kind: "ListCollector", Type: shesmu.TypeBad}
		}
		return &dag.ConcatCollector{Kind: "ConcatCollector", Lexical: c.Lexical, Expr: e, Delimiter: d}
	case *ast.MatchesCollector:
		e := a.expr(item, c.Expr)
		if !a.boolean(c.Expr, e.TypeOf()) {
			return &dag.ListCollector{Kind: "ListCollector", Type: shesmu.TypeBad}
		}
		return &dag.MatchesCollector{Kind: "MatchesCollector", Quantifier: c.Quantifier, Expr: e}
	}
	panic(fmt.Sprintf("semantic: unknown collector %T", c))
}

// defaulted returns the optional of typ, or typ itself when a default is
// given, in which case the default must have the same type.
func (a *analyzer) defaulted(outer *Scope, d ast.Expr, typ shesmu.Type) (dag.Expr, shesmu.Type) {
	if d == nil {
		return nil, shesmu.NewTypeOptional(typ)
	}
	def := a.expr(outer, d)
	if !a.expect(d, typ, def.TypeOf()) {
		return def, shesmu.TypeBad
	}
	return def, shesmu.Unify(typ, def.TypeOf())
}

// bindLocal destructures typ with pattern p defining locals in scope.  It
// returns nil if the pattern does not fit the type.
func (a *analyzer) bindLocal(scope *Scope, p ast.Pattern, typ shesmu.Type) dag.Binder {
	return a.bind(scope, p, typ, a.locals.alloc, func(name string, slot int, typ shesmu.Type) *entry {
		return &entry{ref: &dag.LocalRef{Kind: "LocalRef", Name: name, Slot: slot, Type: typ}, flavour: local}
	})
}

func (a *analyzer) bind(scope *Scope, p ast.Pattern, typ shesmu.Type, alloc func() int, mk func(string, int, shesmu.Type) *entry) dag.Binder {
	switch p := p.(type) {
	case *ast.NamePattern:
		slot := alloc()
		if err := scope.DefineAs(p.Name, mk(p.Name.Name, slot, typ)); err != nil {
			a.error(p.Name, srcfiles.NameError, "Redefinition of variable %q.", p.Name.Name)
			return nil
		}
		if shesmu.IsBad(typ) {
			return nil
		}
		return &dag.BindSlot{Kind: "BindSlot", Slot: slot}
	case *ast.DiscardPattern:
		return &dag.BindDiscard{Kind: "BindDiscard"}
	case *ast.TuplePattern:
		tuple, ok := typ.(*shesmu.TypeTuple)
		if !ok || len(tuple.Elems) != len(p.Elems) {
			a.typeError(p, fmt.Sprintf("tuple of %d elements", len(p.Elems)), typ)
			for _, elem := range p.Elems {
				a.bind(scope, elem, shesmu.TypeBad, alloc, mk)
			}
			return nil
		}
		out := &dag.BindTuple{Kind: "BindTuple"}
		ok = true
		for i, elem := range p.Elems {
			b := a.bind(scope, elem, tuple.Elems[i], alloc, mk)
			ok = ok && b != nil
			out.Elems = append(out.Elems, b)
		}
		if !ok {
			return nil
		}
		return out
	case *ast.ObjectPattern:
		obj, _ := typ.(*shesmu.TypeObject)
		if obj == nil {
			a.typeError(p, "object", typ)
		}
		out := &dag.BindObject{Kind: "BindObject"}
		ok := obj != nil
		for _, f := range p.Fields {
			pattern := f.Pattern
			if pattern == nil {
				pattern = &ast.NamePattern{Kind: "NamePattern", Name: f.Name, Loc: f.Name.Loc}
			}
			ftype := shesmu.Type(shesmu.TypeBad)
			index := -1
			if obj != nil {
				if index = obj.IndexOf(f.Name.Name); index < 0 {
					a.error(f.Name, srcfiles.TypeError, "unknown field %q in %s", f.Name.Name, typ.Name())
					ok = false
				} else {
					ftype = obj.Fields[index].Type
				}
			}
			b := a.bind(scope, pattern, ftype, alloc, mk)
			ok = ok && b != nil
			out.Indexes = append(out.Indexes, index)
			out.Elems = append(out.Elems, b)
		}
		if !ok {
			return nil
		}
		return out
	}
	panic(fmt.Sprintf("semantic: unknown pattern %T", p))
}
