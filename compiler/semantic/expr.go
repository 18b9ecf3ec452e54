package semantic

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
	"github.com/oicr-gsi/shesmu/order"
)

func badExpr() dag.Expr {
	return &dag.BadExpr{Kind: "BadExpr"}
}

func literal(typ shesmu.Type, v shesmu.Value) *dag.Literal {
	return &dag.Literal{Kind: "Literal", Value: v, Type: typ}
}

func (a *analyzer) exprs(scope *Scope, exprs []ast.Expr) []dag.Expr {
	out := make([]dag.Expr, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, a.expr(scope, e))
	}
	return out
}

func (a *analyzer) expr(scope *Scope, e ast.Expr) dag.Expr {
	switch e := e.(type) {
	case nil:
		panic("semantic: nil expression")
	case *ast.BadExpr:
		return badExpr()
	case *ast.BoolLiteral:
		return literal(shesmu.TypeBool, e.Value)
	case *ast.IntLiteral:
		return literal(shesmu.TypeInt, e.Value)
	case *ast.FloatLiteral:
		return literal(shesmu.TypeFloat, e.Value)
	case *ast.DateLiteral:
		return literal(shesmu.TypeDate, e.Value.UTC())
	case *ast.PathLiteral:
		return literal(shesmu.TypePath, shesmu.Path(e.Value))
	case *ast.StringExpr:
		return a.str(scope, e)
	case *ast.IDExpr:
		return a.ident(scope, &e.ID)
	case *ast.BinaryExpr:
		return a.binary(scope, e)
	case *ast.UnaryExpr:
		operand := a.expr(scope, e.Operand)
		typ := operand.TypeOf()
		switch e.Op {
		case "!":
			if !a.boolean(e.Operand, typ) {
				return badExpr()
			}
		case "-":
			if shesmu.IsBad(typ) {
				return badExpr()
			}
			if !isNumber(typ) {
				a.typeError(e.Operand, "integer or float", typ)
				return badExpr()
			}
		}
		return &dag.UnaryExpr{Kind: "UnaryExpr", Op: e.Op, Operand: operand, Type: typ}
	case *ast.CondExpr:
		cond := a.expr(scope, e.Cond)
		then := a.expr(scope, e.Then)
		els := a.expr(scope, e.Else)
		ok := a.boolean(e.Cond, cond.TypeOf())
		typ := shesmu.Unify(then.TypeOf(), els.TypeOf())
		if shesmu.IsBad(typ) {
			if !shesmu.IsBad(then.TypeOf()) {
				a.typeError(e.Else, then.TypeOf().Name(), els.TypeOf())
			}
			return badExpr()
		}
		if !ok {
			return badExpr()
		}
		return &dag.CondExpr{Kind: "CondExpr", Cond: cond, Then: then, Else: els, Type: typ}
	case *ast.CallExpr:
		return a.call(scope, e)
	case *ast.ConvertExpr:
		inner := a.expr(scope, e.Expr)
		target := a.semType(e.Type)
		if shesmu.IsBad(target) || shesmu.IsBad(inner.TypeOf()) {
			return badExpr()
		}
		if target.Kind() == shesmu.JSONKind {
			return &dag.ConvertExpr{Kind: "ConvertExpr", Expr: inner, Type: shesmu.TypeJSON}
		}
		if inner.TypeOf().Kind() != shesmu.JSONKind {
			a.typeError(e.Expr, "json", inner.TypeOf())
			return badExpr()
		}
		return &dag.ConvertExpr{Kind: "ConvertExpr", Expr: inner, Type: shesmu.NewTypeOptional(target)}
	case *ast.DotExpr:
		inner := a.expr(scope, e.Expr)
		typ := inner.TypeOf()
		if shesmu.IsBad(typ) {
			return badExpr()
		}
		obj, ok := typ.(*shesmu.TypeObject)
		if !ok {
			a.typeError(e.Expr, "object", typ)
			return badExpr()
		}
		i := obj.IndexOf(e.Field.Name)
		if i < 0 {
			a.error(e.Field, srcfiles.TypeError, "unknown field %q in %s", e.Field.Name, typ.Name())
			return badExpr()
		}
		return &dag.DotExpr{Kind: "DotExpr", Expr: inner, Field: e.Field.Name, Index: i, Type: obj.Fields[i].Type}
	case *ast.IndexExpr:
		inner := a.expr(scope, e.Expr)
		typ := inner.TypeOf()
		if shesmu.IsBad(typ) {
			return badExpr()
		}
		tuple, ok := typ.(*shesmu.TypeTuple)
		if !ok {
			a.typeError(e.Expr, "tuple", typ)
			return badExpr()
		}
		if e.Index < 0 || e.Index >= len(tuple.Elems) {
			a.error(e, srcfiles.TypeError, "index %d out of range for %s", e.Index, typ.Name())
			return badExpr()
		}
		return &dag.IndexExpr{Kind: "IndexExpr", Expr: inner, Index: e.Index, Type: tuple.Elems[e.Index]}
	case *ast.ListExpr:
		elems := a.exprs(scope, e.Elems)
		if len(elems) == 0 {
			return &dag.ListExpr{Kind: "ListExpr", Type: shesmu.TypeEmpty}
		}
		typ := elems[0].TypeOf()
		for i, elem := range elems[1:] {
			next := shesmu.Unify(typ, elem.TypeOf())
			if shesmu.IsBad(next) {
				if !shesmu.IsBad(typ) {
					a.typeError(e.Elems[i+1], typ.Name(), elem.TypeOf())
				}
				return badExpr()
			}
			typ = next
		}
		typ = shesmu.NewTypeList(typ)
		if shesmu.IsBad(typ) {
			return badExpr()
		}
		return &dag.ListExpr{Kind: "ListExpr", Elems: elems, Type: typ}
	case *ast.TupleExpr:
		elems := a.exprs(scope, e.Elems)
		types := make([]shesmu.Type, 0, len(elems))
		for _, elem := range elems {
			types = append(types, elem.TypeOf())
		}
		typ := shesmu.NewTypeTuple(types...)
		if shesmu.IsBad(typ) {
			return badExpr()
		}
		return &dag.TupleExpr{Kind: "TupleExpr", Elems: elems, Type: typ}
	case *ast.ObjectExpr:
		return a.object(scope, e)
	case *ast.OptionalExpr:
		if e.Expr == nil {
			return &dag.OptionalExpr{Kind: "OptionalExpr", Type: shesmu.TypeNothing}
		}
		inner := a.expr(scope, e.Expr)
		typ := shesmu.NewTypeOptional(inner.TypeOf())
		if shesmu.IsBad(typ) {
			return badExpr()
		}
		return &dag.OptionalExpr{Kind: "OptionalExpr", Expr: inner, Type: typ}
	case *ast.RegexExpr:
		inner := a.expr(scope, e.Expr)
		ok := a.expect(e.Expr, shesmu.TypeString, inner.TypeOf())
		if _, err := regexp.Compile(e.Pattern); err != nil {
			a.error(e, srcfiles.ParseError, "invalid regular expression: %s", err)
			return badExpr()
		}
		if !ok {
			return badExpr()
		}
		return &dag.RegexExpr{Kind: "RegexExpr", Expr: inner, Pattern: e.Pattern}
	case *ast.ForExpr:
		return a.forExpr(scope, e)
	}
	panic(fmt.Sprintf("semantic: unknown expression %T", e))
}

func (a *analyzer) ident(scope *Scope, id *ast.ID) dag.Expr {
	if e := scope.lookupEntry(id.Name); e != nil {
		switch e.flavour {
		case function:
			a.error(id, srcfiles.NameError, "function %q used as a variable", id.Name)
			return badExpr()
		case streamSignable:
			if e.signables != nil {
				e.signables.add(e.base)
			}
		case streamSignature:
			return e.sigs.ref(e.sig, e.sigBase)
		}
		return e.ref
	}
	if c := a.reg.Constant(id.Name); c != nil {
		return literal(c.Type, c.Value)
	}
	if a.reg.Signature(id.Name) != nil {
		if a.olive != nil && a.olive.state != order.Pure {
			a.error(id, srcfiles.SignatureError, "signature %q cannot be used after Group or LeftJoin", id.Name)
		} else {
			a.error(id, srcfiles.SignatureError, "signature %q is not available here", id.Name)
		}
		return badExpr()
	}
	if a.olive != nil && a.olive.state == order.Bad {
		return badExpr()
	}
	a.nameError(id, "undefined variable", id.Name, append(scope.allNames(), a.reg.Names()...))
	return badExpr()
}

func (a *analyzer) str(scope *Scope, e *ast.StringExpr) dag.Expr {
	var parts []dag.StringPart
	constant := true
	bad := false
	for _, p := range e.Parts {
		if p.Expr == nil {
			parts = append(parts, dag.StringPart{Text: p.Text})
			continue
		}
		constant = false
		inner := a.expr(scope, p.Expr)
		typ := inner.TypeOf()
		switch {
		case shesmu.IsBad(typ):
			bad = true
		case p.Width > 0 && !a.integer(p.Expr, typ):
			bad = true
		case p.Format != "" && !a.expect(p.Expr, shesmu.TypeDate, typ):
			bad = true
		}
		parts = append(parts, dag.StringPart{Expr: inner, Width: p.Width, Format: p.Format})
	}
	if bad {
		return badExpr()
	}
	if constant {
		var b strings.Builder
		for _, p := range parts {
			b.WriteString(p.Text)
		}
		return literal(shesmu.TypeString, b.String())
	}
	return &dag.StringExpr{Kind: "StringExpr", Parts: parts}
}

func (a *analyzer) object(scope *Scope, e *ast.ObjectExpr) dag.Expr {
	type field struct {
		name string
		expr dag.Expr
	}
	var fields []field
	bad := false
	for _, f := range e.Fields {
		value := a.expr(scope, f.Value)
		if slices.ContainsFunc(fields, func(x field) bool { return x.name == f.Name.Name }) {
			a.error(f.Name, srcfiles.NameError, "duplicate field %q", f.Name.Name)
			bad = true
		}
		bad = bad || shesmu.IsBad(value.TypeOf())
		fields = append(fields, field{f.Name.Name, value})
	}
	if bad {
		return badExpr()
	}
	slices.SortFunc(fields, func(a, b field) int {
		return strings.Compare(a.name, b.name)
	})
	exprs := make([]dag.Expr, 0, len(fields))
	types := make([]shesmu.Field, 0, len(fields))
	for _, f := range fields {
		exprs = append(exprs, f.expr)
		types = append(types, shesmu.NewField(f.name, f.expr.TypeOf()))
	}
	return &dag.ObjectExpr{Kind: "ObjectExpr", Fields: exprs, Type: shesmu.NewTypeObject(types)}
}

func (a *analyzer) call(scope *Scope, e *ast.CallExpr) dag.Expr {
	args := a.exprs(scope, e.Args)
	var params []shesmu.Type
	var out dag.Expr
	if entry := scope.lookupEntry(e.Name.Name); entry != nil && entry.flavour == function {
		params = entry.fn.params
		out = &dag.FuncRef{Kind: "FuncRef", Name: e.Name.Name, Slot: entry.fn.slot, Args: args, Type: entry.fn.result}
	} else if fn := a.reg.Function(e.Name.Name); fn != nil {
		params = fn.Params
		out = &dag.CallExpr{Kind: "CallExpr", Func: fn, Name: fn.Name, Args: args}
	} else {
		var candidates []string
		for _, name := range append(scope.allNames(), a.reg.Names()...) {
			if entry := scope.lookupEntry(name); entry != nil && entry.flavour == function || a.reg.Function(name) != nil {
				candidates = append(candidates, name)
			}
		}
		a.nameError(e.Name, "undefined function", e.Name.Name, candidates)
		return badExpr()
	}
	if len(args) != len(params) {
		a.error(e, srcfiles.TypeError, "function %q expects %d arguments, got %d", e.Name.Name, len(params), len(args))
		return badExpr()
	}
	ok := true
	for i, arg := range args {
		if !a.expect(e.Args[i], params[i], arg.TypeOf()) {
			ok = false
		}
	}
	if !ok {
		return badExpr()
	}
	return out
}

var comparisons = []string{"<", "<=", ">", ">="}

func (a *analyzer) binary(scope *Scope, e *ast.BinaryExpr) dag.Expr {
	lhs := a.expr(scope, e.LHS)
	rhs := a.expr(scope, e.RHS)
	ltype, rtype := lhs.TypeOf(), rhs.TypeOf()
	out := &dag.BinaryExpr{Kind: "BinaryExpr", Op: e.Op, LHS: lhs, RHS: rhs, Type: shesmu.TypeBool}
	switch {
	case e.Op == "&&" || e.Op == "||":
		lok := a.boolean(e.LHS, ltype)
		if !a.boolean(e.RHS, rtype) || !lok {
			return badExpr()
		}
		return out
	case e.Op == "==" || e.Op == "!=":
		if shesmu.IsBad(ltype) || shesmu.IsBad(rtype) {
			return badExpr()
		}
		if !a.expect(e.RHS, ltype, rtype) {
			return badExpr()
		}
		return out
	case slices.Contains(comparisons, e.Op):
		if !a.orderable(e.LHS, ltype) || !a.expect(e.RHS, ltype, rtype) {
			return badExpr()
		}
		return out
	case e.Op == "In":
		if shesmu.IsBad(ltype) || shesmu.IsBad(rtype) {
			return badExpr()
		}
		if !a.expect(e.RHS, shesmu.NewTypeList(ltype), rtype) {
			return badExpr()
		}
		return out
	}
	if shesmu.IsBad(ltype) || shesmu.IsBad(rtype) {
		return badExpr()
	}
	typ := arithmetic(e.Op, ltype, rtype)
	if typ == nil {
		if want := operand(e.Op, ltype); want != "" {
			a.typeError(e.RHS, want, rtype)
		} else {
			a.error(e.LHS, srcfiles.TypeError, "operator %s is not defined for %s", e.Op, ltype.Name())
		}
		return badExpr()
	}
	out.Type = typ
	return out
}

// arithmetic returns the result type of lhs op rhs or nil if the operator
// does not apply.
func arithmetic(op string, lhs, rhs shesmu.Type) shesmu.Type {
	lk, rk := lhs.Kind(), rhs.Kind()
	if isNumber(lhs) && isNumber(rhs) {
		if op == "%" && (lk != shesmu.IntKind || rk != shesmu.IntKind) {
			return nil
		}
		if lk == shesmu.IntKind && rk == shesmu.IntKind {
			return shesmu.TypeInt
		}
		return shesmu.TypeFloat
	}
	switch op {
	case "+":
		switch {
		case lk == shesmu.DateKind && rk == shesmu.IntKind:
			return shesmu.TypeDate
		case lk == shesmu.StringKind && rk == shesmu.StringKind:
			return shesmu.TypeString
		case lk == shesmu.PathKind && (rk == shesmu.PathKind || rk == shesmu.StringKind):
			return shesmu.TypePath
		}
		return setOp(lhs, rhs)
	case "-":
		switch {
		case lk == shesmu.DateKind && rk == shesmu.IntKind:
			return shesmu.TypeDate
		case lk == shesmu.DateKind && rk == shesmu.DateKind:
			return shesmu.TypeInt
		}
		return setOp(lhs, rhs)
	}
	return nil
}

// setOp types list union or difference with another list or a single
// element.
func setOp(lhs, rhs shesmu.Type) shesmu.Type {
	if lhs.Kind() != shesmu.ListKind {
		return nil
	}
	if u := shesmu.Unify(lhs, rhs); !shesmu.IsBad(u) {
		return u
	}
	if shesmu.IsSame(shesmu.Inner(lhs), rhs) {
		return lhs
	}
	return nil
}

// operand describes what may appear on the right of lhs op or "" if op
// never applies to lhs.
func operand(op string, lhs shesmu.Type) string {
	switch {
	case isNumber(lhs):
		if op == "%" {
			return "integer"
		}
		return lhs.Name()
	case op == "+" || op == "-":
		switch lhs.Kind() {
		case shesmu.DateKind:
			if op == "-" {
				return "integer or date"
			}
			return "integer"
		case shesmu.StringKind:
			if op == "+" {
				return "string"
			}
		case shesmu.PathKind:
			if op == "+" {
				return "path or string"
			}
		case shesmu.ListKind:
			return lhs.Name() + " or " + shesmu.Inner(lhs).Name()
		}
	}
	return ""
}
