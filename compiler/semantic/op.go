package semantic

import (
	"fmt"
	"slices"
	"strings"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
	"github.com/oicr-gsi/shesmu/order"
)

func (a *analyzer) oliveDecl(d *ast.OliveDecl) {
	if a.format == nil {
		return
	}
	a.locals = &frame{}
	pos := a.files.FileOf(d.Pos()).Position(d.Pos())
	o := &olive{
		decl: &dag.Olive{
			Name:        fmt.Sprintf("%s:%d:%d", a.fileName(d.Pos()), pos.Line, pos.Column),
			Line:        pos.Line,
			Column:      pos.Column,
			Description: d.Description,
			Format:      a.format.Name,
		},
		state: order.Pure,
		sigs:  newSigTable(a.format, false),
		base:  a.global,
	}
	for _, tag := range d.Tags {
		o.decl.Tags = append(o.decl.Tags, tag.Name)
	}
	a.olive = o
	defer func() { a.olive = nil }()
	scope := NewScope(a.global)
	a.defineFormat(scope, a.format, "", 0, o.sigs)
	body, scope := a.clauses(scope, d.Clauses)
	o.decl.Body = body
	o.decl.Action = a.action(scope, d)
	o.decl.Signatures = o.sigs.defs()
	o.decl.Signables = o.sigs.signables.sorted()
	o.decl.Locals = a.locals.max
	o.decl.InputRefs = o.inputRefs
	a.prog.Olives = append(a.prog.Olives, o.decl)
}

func (a *analyzer) fileName(pos int) string {
	if name := a.files.FileOf(pos).Name; name != "" {
		return name
	}
	return "<input>"
}

func (a *analyzer) clauses(scope *Scope, clauses []ast.Clause) (dag.Seq, *Scope) {
	var seq dag.Seq
	for _, c := range clauses {
		var op dag.Op
		op, scope = a.clause(scope, c)
		if op != nil {
			seq.Append(op)
		}
	}
	return seq, scope
}

func (a *analyzer) newStream() *Scope {
	return NewScope(a.olive.base)
}

// finishStream keeps signatures visible while the stream is pure.
func (a *analyzer) finishStream(scope *Scope) *Scope {
	if a.olive.state == order.Pure {
		a.defineSignatures(scope, "", 0, a.olive.sigs)
	}
	return scope
}

// restream copies the stream entries of scope, keeping their slots, into
// a new scope over parent.
func restream(scope *Scope, parent *Scope) *Scope {
	out := NewScope(parent)
	for _, name := range scope.names {
		out.DefineAs(&ast.ID{Name: name}, scope.symbols[name])
	}
	return out
}

func (a *analyzer) clause(scope *Scope, c ast.Clause) (dag.Op, *Scope) {
	o := a.olive
	switch c := c.(type) {
	case *ast.BadClause:
		o.state = order.Bad
		return nil, scope
	case *ast.WhereClause:
		e := a.expr(scope, c.Expr)
		a.boolean(c.Expr, e.TypeOf())
		return &dag.FilterOp{Kind: "FilterOp", Expr: e}, scope
	case *ast.LetClause:
		next := a.newStream()
		op := &dag.LetOp{Kind: "LetOp"}
		for _, b := range c.Bindings {
			var e dag.Expr
			flav := stream
			var prev *entry
			if b.Expr == nil {
				e = a.ident(scope, b.Name)
				if prev = scope.lookupEntry(b.Name.Name); prev != nil && prev.flavour == streamSignable {
					flav = streamSignable
				}
			} else {
				e = a.expr(scope, b.Expr)
			}
			ent := &entry{
				ref:     &dag.StreamRef{Kind: "StreamRef", Name: b.Name.Name, Slot: len(op.Assigns), Type: e.TypeOf()},
				flavour: flav,
			}
			if flav == streamSignable {
				ent.signables, ent.base = prev.signables, prev.base
			}
			if err := next.DefineAs(b.Name, ent); err != nil {
				a.error(b.Name, srcfiles.NameError, "Redefinition of variable %q.", b.Name.Name)
				continue
			}
			op.Assigns = append(op.Assigns, dag.Assignment{Name: b.Name.Name, Expr: e})
		}
		return op, a.finishStream(next)
	case *ast.FlattenClause:
		e := a.expr(scope, c.Expr)
		typ := e.TypeOf()
		op := &dag.FlattenOp{Kind: "FlattenOp", Expr: e}
		switch typ.Kind() {
		case shesmu.ListKind, shesmu.EmptyKind:
			typ = shesmu.AsList(typ)
		case shesmu.OptionalKind, shesmu.NothingKind:
			typ = shesmu.AsOptional(typ)
			op.Optional = true
		default:
			a.typeError(c.Expr, "list or optional", typ)
			typ = shesmu.TypeBad
		}
		next := a.newStream()
		width := 0
		for _, name := range scope.streamNames() {
			next.DefineAs(&ast.ID{Name: name}, scope.symbols[name])
			width++
		}
		op.Width = width
		alloc := func() int {
			op.Width++
			return op.Width - 1
		}
		op.Bind = a.bind(next, c.Pattern, shesmu.Inner(typ), alloc, func(name string, slot int, typ shesmu.Type) *entry {
			return &entry{ref: &dag.StreamRef{Kind: "StreamRef", Name: name, Slot: slot, Type: typ}, flavour: stream}
		})
		return op, a.finishStream(next)
	case *ast.GroupClause:
		return a.group(scope, c)
	case *ast.LeftJoinClause:
		return a.leftJoin(scope, c)
	case *ast.CallClause:
		return a.callClause(scope, c)
	case *ast.DumpClause:
		return a.dump(scope, c)
	}
	panic(fmt.Sprintf("semantic: unknown clause %T", c))
}

func (a *analyzer) output(outer, item *Scope, out ast.Output) (dag.Output, shesmu.Type) {
	var where dag.Expr
	if out.Where != nil {
		where = a.expr(item, out.Where)
		a.boolean(out.Where, where.TypeOf())
	}
	c := a.collector(outer, item, out.Collector)
	typ := c.TypeOf()
	var unwrap bool
	switch c := c.(type) {
	case *dag.FirstCollector:
		unwrap = c.Default == nil
	case *dag.OptimaCollector:
		unwrap = c.Default == nil
	case *dag.UnivaluedCollector:
		unwrap = true
	}
	if unwrap && !shesmu.IsBad(typ) {
		typ = shesmu.Inner(typ)
	}
	return dag.Output{Name: out.Name.Name, Where: where, Collector: c, Unwrap: unwrap}, typ
}

func streamEntry(name string, slot int, typ shesmu.Type) *entry {
	return &entry{ref: &dag.StreamRef{Kind: "StreamRef", Name: name, Slot: slot, Type: typ}, flavour: stream}
}

func (a *analyzer) group(scope *Scope, c *ast.GroupClause) (dag.Op, *Scope) {
	o := a.olive
	next := a.newStream()
	op := &dag.GroupOp{Kind: "GroupOp"}
	for _, b := range c.By {
		var e dag.Expr
		if b.Expr == nil {
			e = a.ident(scope, b.Name)
		} else {
			e = a.expr(scope, b.Expr)
		}
		if err := next.DefineAs(b.Name, streamEntry(b.Name.Name, len(op.Keys), e.TypeOf())); err != nil {
			a.error(b.Name, srcfiles.NameError, "Redefinition of variable %q.", b.Name.Name)
			continue
		}
		op.Keys = append(op.Keys, dag.Assignment{Name: b.Name.Name, Expr: e})
	}
	for _, out := range c.Into {
		output, typ := a.output(o.base, scope, out)
		if err := next.DefineAs(out.Name, streamEntry(out.Name.Name, len(op.Keys)+len(op.Outputs), typ)); err != nil {
			a.error(out.Name, srcfiles.NameError, "Redefinition of variable %q.", out.Name.Name)
			continue
		}
		op.Outputs = append(op.Outputs, output)
	}
	o.state = o.state.Then(order.Transformed)
	return op, next
}

func (a *analyzer) leftJoin(scope *Scope, c *ast.LeftJoinClause) (dag.Op, *Scope) {
	o := a.olive
	outer := a.expr(scope, c.Outer)
	format := a.reg.Format(c.Format.Name)
	if format == nil {
		a.nameError(c.Format, "unknown input format", c.Format.Name, a.reg.FormatNames())
		o.state = order.Bad
		return nil, scope
	}
	var prefix string
	if c.Prefix != nil {
		prefix = c.Prefix.Name
	}
	outerNames := scope.streamNames()
	var incoming []string
	for _, v := range format.Variables {
		incoming = append(incoming, prefix+v.Name)
	}
	for _, sig := range a.reg.Signatures() {
		incoming = append(incoming, prefix+sig.Name)
	}
	var dups []string
	for _, name := range outerNames {
		if slices.Contains(incoming, name) {
			dups = append(dups, name)
		}
	}
	if len(dups) > 0 {
		slices.Sort(dups)
		a.error(c, srcfiles.NameError, "Duplicate variables on both sides of LeftJoin. Please rename or drop the following using a Let: %s", strings.Join(dups, ", "))
		o.state = order.Bad
		return nil, scope
	}
	a.inputRef(format.Name)
	sigs := newSigTable(format, true)
	innerScope := NewScope(o.base)
	a.defineFormat(innerScope, format, "", 0, sigs)
	inner := a.expr(innerScope, c.Inner)
	a.expect(c.Inner, outer.TypeOf(), inner.TypeOf())

	width := len(outerNames)
	merged := NewScope(o.base)
	for _, name := range outerNames {
		merged.DefineAs(&ast.ID{Name: name}, scope.symbols[name])
	}
	a.defineFormat(merged, format, prefix, width, sigs)
	if o.state == order.Pure {
		a.defineSignatures(merged, "", 0, o.sigs)
	}
	op := &dag.JoinOp{Kind: "JoinOp", Format: format.Name, Outer: outer, Inner: inner}
	if c.Where != nil {
		op.Where = a.expr(merged, c.Where)
		a.boolean(c.Where, op.Where.TypeOf())
	}
	next := a.newStream()
	for i, name := range outerNames {
		ref := scope.symbols[name].ref
		next.DefineAs(&ast.ID{Name: name}, streamEntry(name, i, ref.TypeOf()))
		op.Keep = append(op.Keep, ref.(*dag.StreamRef).Slot)
	}
	for _, out := range c.Into {
		output, typ := a.output(o.base, merged, out)
		if err := next.DefineAs(out.Name, streamEntry(out.Name.Name, len(op.Keep)+len(op.Outputs), typ)); err != nil {
			a.error(out.Name, srcfiles.NameError, "Redefinition of variable %q.", out.Name.Name)
			continue
		}
		op.Outputs = append(op.Outputs, output)
	}
	op.Signatures = sigs.defs()
	op.InnerWidth = len(format.Variables) + len(op.Signatures)
	o.state = o.state.Then(order.Transformed)
	return op, next
}

func (a *analyzer) callClause(scope *Scope, c *ast.CallClause) (dag.Op, *Scope) {
	o := a.olive
	def, ok := a.defines[c.Name.Name]
	if !ok {
		var names []string
		for name := range a.defines {
			names = append(names, name)
		}
		a.nameError(c.Name, "undefined Define", c.Name.Name, names)
		o.state = order.Bad
		return nil, scope
	}
	switch o.state {
	case order.Bad:
		return nil, scope
	case order.Transformed:
		if a.rootDefine(def, make(map[string]bool)) {
			a.error(c, srcfiles.OrderError, "Call clause cannot be applied to grouped result.")
			o.state = order.Bad
			return nil, scope
		}
	}
	if slices.Contains(o.calls, def.Name.Name) {
		a.error(c, srcfiles.OrderError, "Define %q includes itself.", def.Name.Name)
		o.state = order.Bad
		return nil, scope
	}
	if len(c.Args) != len(def.Params) {
		a.error(c, srcfiles.TypeError, "Define %q expects %d arguments, got %d", def.Name.Name, len(def.Params), len(c.Args))
		o.state = order.Bad
		return nil, scope
	}
	op := &dag.CallOp{Kind: "CallOp", Name: def.Name.Name}
	params := NewScope(a.global)
	for i, p := range def.Params {
		typ := a.semType(p.Type)
		arg := a.expr(o.base, c.Args[i])
		a.expect(c.Args[i], typ, arg.TypeOf())
		op.Args = append(op.Args, arg)
		ref := &dag.ParamRef{Kind: "ParamRef", Name: p.Name.Name, Slot: i, Type: typ}
		if err := params.DefineAs(p.Name, &entry{ref: ref, flavour: param}); err != nil {
			a.error(p.Name, srcfiles.NameError, "%s", err)
		}
	}
	base := o.base
	o.base = params
	o.calls = append(o.calls, def.Name.Name)
	body, next := a.clauses(restream(scope, params), def.Clauses)
	o.calls = o.calls[:len(o.calls)-1]
	o.base = base
	op.Body = body
	return op, restream(next, base)
}

// rootDefine reports whether def has no Group or LeftJoin, directly or
// through the Defines it calls.  Only a Define that is not root may be
// called on a grouped stream.
func (a *analyzer) rootDefine(def *ast.DefineDecl, seen map[string]bool) bool {
	if seen[def.Name.Name] {
		return true
	}
	seen[def.Name.Name] = true
	for _, c := range def.Clauses {
		switch c := c.(type) {
		case *ast.GroupClause, *ast.LeftJoinClause:
			return false
		case *ast.CallClause:
			if inner, ok := a.defines[c.Name.Name]; ok && !a.rootDefine(inner, seen) {
				return false
			}
		}
	}
	return true
}

func (a *analyzer) dump(scope *Scope, c *ast.DumpClause) (dag.Op, *Scope) {
	op := &dag.DumpOp{Kind: "DumpOp", Dumper: c.Dumper.Name}
	if _, ok := a.reg.Dumper(c.Dumper.Name); !ok {
		a.error(c.Dumper, srcfiles.NameError, "unknown dumper %q", c.Dumper.Name)
	}
	if c.All {
		names := scope.streamNames()
		slices.Sort(names)
		for _, name := range names {
			e := a.ident(scope, &ast.ID{Name: name, Loc: c.Loc})
			op.Names = append(op.Names, name)
			op.Exprs = append(op.Exprs, e)
			op.Types = append(op.Types, e.TypeOf())
		}
		return op, scope
	}
	for _, e := range c.Exprs {
		d := a.expr(scope, e)
		op.Names = append(op.Names, strings.TrimSpace(a.files.Text[e.Pos():e.End()]))
		op.Exprs = append(op.Exprs, d)
		op.Types = append(op.Types, d.TypeOf())
	}
	return op, scope
}

func (a *analyzer) action(scope *Scope, d *ast.OliveDecl) *dag.ActionOp {
	if d.Action == nil || a.olive.state == order.Bad {
		return nil
	}
	def := a.reg.Action(d.Action.Name)
	if def == nil {
		a.nameError(d.Action, "unknown action", d.Action.Name, a.reg.ActionNames())
		return nil
	}
	op := &dag.ActionOp{Kind: "ActionOp", Name: def.Name, Def: def}
	seen := make(map[string]bool)
	for _, b := range d.Args {
		var e dag.Expr
		if b.Expr == nil {
			e = a.ident(scope, b.Name)
		} else {
			e = a.expr(scope, b.Expr)
		}
		param := def.Param(b.Name.Name)
		switch {
		case param == nil:
			var names []string
			for _, p := range def.Params {
				names = append(names, p.Name)
			}
			a.nameError(b.Name, fmt.Sprintf("unknown parameter for action %q:", def.Name), b.Name.Name, names)
			continue
		case seen[param.Name]:
			a.error(b.Name, srcfiles.NameError, "duplicate parameter %q", param.Name)
			continue
		}
		seen[param.Name] = true
		var loc ast.Node = b.Name
		if b.Expr != nil {
			loc = b.Expr
		}
		a.expect(loc, param.Type, e.TypeOf())
		op.Params = append(op.Params, dag.Assignment{Name: param.Name, Expr: e})
	}
	for _, p := range def.Params {
		if p.Required && !seen[p.Name] {
			a.error(d.Action, srcfiles.NameError, "missing parameter %q for action %q", p.Name, def.Name)
		}
	}
	slices.SortFunc(op.Params, func(a, b dag.Assignment) int {
		return strings.Compare(a.Name, b.Name)
	})
	return op
}
