package sam

import (
	"errors"
	"fmt"
	"slices"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
)

var ErrBadExpr = errors.New("program contains a bad expression")

// exprCompiler turns analyzed expressions into evaluators.  Formats are
// needed to lay out the objects of For In Input sources.
type exprCompiler struct {
	reg *definitions.Registry
}

func (c *exprCompiler) compileExprs(in []dag.Expr) ([]expr.Evaluator, error) {
	out := make([]expr.Evaluator, 0, len(in))
	for _, e := range in {
		eval, err := c.compileExpr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, eval)
	}
	return out, nil
}

// compileOptExpr passes a nil expression through as a nil evaluator.
func (c *exprCompiler) compileOptExpr(e dag.Expr) (expr.Evaluator, error) {
	if e == nil {
		return nil, nil
	}
	return c.compileExpr(e)
}

func (c *exprCompiler) compileExpr(e dag.Expr) (expr.Evaluator, error) {
	switch e := e.(type) {
	case *dag.BadExpr:
		return nil, ErrBadExpr
	case *dag.Literal:
		return expr.NewLiteral(e.Value), nil
	case *dag.StreamRef:
		return expr.StreamVar(e.Slot), nil
	case *dag.LocalRef:
		return expr.LocalVar(e.Slot), nil
	case *dag.ParamRef:
		return expr.ParamVar(e.Slot), nil
	case *dag.ConstRef:
		return expr.ConstVar(e.Slot), nil
	case *dag.SignatureRef:
		return expr.SignatureVar(e.Slot), nil
	case *dag.UnaryExpr:
		operand, err := c.compileExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		if e.Op == "!" {
			return expr.NewLogicalNot(operand), nil
		}
		return expr.NewNegate(operand), nil
	case *dag.BinaryExpr:
		return c.compileBinary(e)
	case *dag.CondExpr:
		exprs, err := c.compileExprs([]dag.Expr{e.Cond, e.Then, e.Else})
		if err != nil {
			return nil, err
		}
		return expr.NewConditional(exprs[0], exprs[1], exprs[2]), nil
	case *dag.ConvertExpr:
		inner, err := c.compileExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		if e.Type.Kind() == shesmu.JSONKind {
			return expr.NewToJSON(inner, e.Expr.TypeOf()), nil
		}
		return expr.NewFromJSON(inner, shesmu.Inner(e.Type)), nil
	case *dag.DotExpr:
		inner, err := c.compileExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return expr.NewDot(inner, e.Index), nil
	case *dag.IndexExpr:
		inner, err := c.compileExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return expr.NewDot(inner, e.Index), nil
	case *dag.ListExpr:
		elems, err := c.compileExprs(e.Elems)
		if err != nil {
			return nil, err
		}
		return expr.NewListExpr(elems), nil
	case *dag.TupleExpr:
		elems, err := c.compileExprs(e.Elems)
		if err != nil {
			return nil, err
		}
		return expr.NewTupleExpr(elems), nil
	case *dag.ObjectExpr:
		fields, err := c.compileExprs(e.Fields)
		if err != nil {
			return nil, err
		}
		return expr.NewObjectExpr(fields), nil
	case *dag.OptionalExpr:
		inner, err := c.compileOptExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return expr.NewSomeExpr(inner), nil
	case *dag.RegexExpr:
		inner, err := c.compileExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return expr.NewRegexpMatch(e.Pattern, inner)
	case *dag.StringExpr:
		return c.compileString(e)
	case *dag.CallExpr:
		args, err := c.compileExprs(e.Args)
		if err != nil {
			return nil, err
		}
		return expr.NewCall(e.Func.Impl, args), nil
	case *dag.FuncRef:
		args, err := c.compileExprs(e.Args)
		if err != nil {
			return nil, err
		}
		return expr.NewFuncCall(e.Slot, args), nil
	case *dag.ForExpr:
		return c.compileFor(e)
	}
	return nil, fmt.Errorf("invalid expression type %T", e)
}

var comparisons = []string{"<", "<=", ">", ">="}

func (c *exprCompiler) compileBinary(e *dag.BinaryExpr) (expr.Evaluator, error) {
	lhs, err := c.compileExpr(e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := c.compileExpr(e.RHS)
	if err != nil {
		return nil, err
	}
	switch op := e.Op; {
	case op == "&&":
		return expr.NewLogicalAnd(lhs, rhs), nil
	case op == "||":
		return expr.NewLogicalOr(lhs, rhs), nil
	case op == "==" || op == "!=":
		return expr.NewCompareEquality(lhs, rhs, op), nil
	case slices.Contains(comparisons, op):
		return expr.NewCompareRelative(lhs, rhs, op), nil
	case op == "In":
		return expr.NewIn(lhs, rhs), nil
	}
	ltype, rtype := e.LHS.TypeOf(), e.RHS.TypeOf()
	if ltype.Kind() == shesmu.ListKind {
		elem := shesmu.IsBad(shesmu.Unify(ltype, rtype))
		return expr.NewListArithmetic(lhs, rhs, e.Op, elem), nil
	}
	return expr.NewArithmetic(lhs, rhs, e.Op), nil
}

func (c *exprCompiler) compileString(e *dag.StringExpr) (expr.Evaluator, error) {
	parts := make([]expr.Part, 0, len(e.Parts))
	for _, p := range e.Parts {
		if p.Expr == nil {
			parts = append(parts, expr.Part{Text: p.Text})
			continue
		}
		eval, err := c.compileExpr(p.Expr)
		if err != nil {
			return nil, err
		}
		part := expr.Part{Expr: eval, Width: p.Width}
		if p.Format != "" {
			if part.Format, err = expr.NewDateFormat(p.Format); err != nil {
				return nil, err
			}
		}
		parts = append(parts, part)
	}
	return expr.NewInterpolation(parts), nil
}

func (c *exprCompiler) compileFor(e *dag.ForExpr) (expr.Evaluator, error) {
	source, err := c.compileSource(e.Source)
	if err != nil {
		return nil, err
	}
	var ops []expr.ListOp
	for _, op := range e.Ops {
		listOp, err := c.compileListOp(op)
		if err != nil {
			return nil, err
		}
		ops = append(ops, listOp)
	}
	coll, err := c.compileCollector(e.Collector)
	if err != nil {
		return nil, err
	}
	return expr.NewFor(source, compileBinder(e.Bind), ops, coll), nil
}

func (c *exprCompiler) compileSource(s dag.Source) (expr.Source, error) {
	switch s := s.(type) {
	case *dag.ContainerSource:
		e, err := c.compileExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		if s.Optional {
			return expr.NewOptionalSource(e), nil
		}
		return expr.NewListSource(e), nil
	case *dag.RangeSource:
		from, err := c.compileExpr(s.From)
		if err != nil {
			return nil, err
		}
		to, err := c.compileExpr(s.To)
		if err != nil {
			return nil, err
		}
		return expr.NewRangeSource(from, to), nil
	case *dag.InputSource:
		format := c.reg.Format(s.Format)
		if format == nil {
			return nil, fmt.Errorf("unknown input format %q", s.Format)
		}
		obj, ok := s.Type.(*shesmu.TypeObject)
		if !ok {
			return nil, fmt.Errorf("input source %q is not an object", s.Format)
		}
		fields := make([]int, 0, len(obj.Fields))
		for _, f := range obj.Fields {
			fields = append(fields, format.IndexOf(f.Name))
		}
		return expr.NewInputSource(s.Format, fields), nil
	}
	return nil, fmt.Errorf("invalid source type %T", s)
}

func (c *exprCompiler) compileListOp(op dag.ListOp) (expr.ListOp, error) {
	switch op := op.(type) {
	case *dag.WhereOp:
		e, err := c.compileExpr(op.Expr)
		if err != nil {
			return nil, err
		}
		return expr.NewWhere(e), nil
	case *dag.ListLetOp:
		e, err := c.compileExpr(op.Expr)
		if err != nil {
			return nil, err
		}
		return expr.NewLet(compileBinder(op.Bind), e), nil
	case *dag.SortOp:
		e, err := c.compileExpr(op.Expr)
		if err != nil {
			return nil, err
		}
		return expr.NewSort(e), nil
	case *dag.ReverseOp:
		return expr.Reverse{}, nil
	case *dag.DistinctOp:
		return expr.Distinct{}, nil
	case *dag.ListFlattenOp:
		source, err := c.compileSource(op.Source)
		if err != nil {
			return nil, err
		}
		return expr.NewFlatten(compileBinder(op.Bind), source), nil
	case *dag.SubsampleOp:
		samplers := make([]expr.Sampler, 0, len(op.Samplers))
		for _, s := range op.Samplers {
			count, err := c.compileExpr(s.Count)
			if err != nil {
				return nil, err
			}
			while, err := c.compileOptExpr(s.While)
			if err != nil {
				return nil, err
			}
			samplers = append(samplers, expr.Sampler{Squish: s.Kind == "Squish", Count: count, While: while})
		}
		return expr.NewSubsample(samplers), nil
	}
	return nil, fmt.Errorf("invalid list operation type %T", op)
}

func (c *exprCompiler) compileCollector(coll dag.Collector) (*expr.Aggregator, error) {
	switch coll := coll.(type) {
	case *dag.CountCollector:
		return expr.NewAggregator("Count", nil, nil, shesmu.TypeInt)
	case *dag.ListCollector:
		return c.compileAggregator("List", coll.Expr, nil, coll.Type)
	case *dag.DictCollector:
		pair := &dag.TupleExpr{Kind: "TupleExpr", Elems: []dag.Expr{coll.Key, coll.Value}}
		return c.compileAggregator("Dict", pair, nil, coll.Type)
	case *dag.FirstCollector:
		return c.compileAggregator("First", coll.Expr, coll.Default, coll.Type)
	case *dag.UnivaluedCollector:
		return c.compileAggregator("Univalued", coll.Expr, nil, coll.Type)
	case *dag.OptimaCollector:
		op := "Min"
		if coll.Max {
			op = "Max"
		}
		return c.compileAggregator(op, coll.Expr, coll.Default, coll.Type)
	case *dag.PartitionCountCollector:
		return c.compileAggregator("PartitionCount", coll.Expr, nil, dag.PartitionCountType)
	case *dag.MatchesCollector:
		return c.compileAggregator(coll.Quantifier, coll.Expr, nil, shesmu.TypeBool)
	case *dag.ReduceCollector:
		initial, err := c.compileExpr(coll.Initial)
		if err != nil {
			return nil, err
		}
		e, err := c.compileExpr(coll.Expr)
		if err != nil {
			return nil, err
		}
		return expr.NewReducer(initial, compileBinder(coll.Bind), e, coll.Type), nil
	case *dag.ConcatCollector:
		e, err := c.compileExpr(coll.Expr)
		if err != nil {
			return nil, err
		}
		delim, err := c.compileExpr(coll.Delimiter)
		if err != nil {
			return nil, err
		}
		return expr.NewConcatenator(coll.Lexical, e, delim), nil
	}
	return nil, fmt.Errorf("invalid collector type %T", coll)
}

func (c *exprCompiler) compileAggregator(op string, e, fallback dag.Expr, typ shesmu.Type) (*expr.Aggregator, error) {
	eval, err := c.compileExpr(e)
	if err != nil {
		return nil, err
	}
	def, err := c.compileOptExpr(fallback)
	if err != nil {
		return nil, err
	}
	return expr.NewAggregator(op, eval, def, typ)
}

func compileBinder(b dag.Binder) expr.Binder {
	switch b := b.(type) {
	case *dag.BindSlot:
		return expr.BindSlot(b.Slot)
	case *dag.BindTuple:
		out := make(expr.BindTuple, 0, len(b.Elems))
		for _, e := range b.Elems {
			out = append(out, compileBinder(e))
		}
		return out
	case *dag.BindObject:
		out := &expr.BindObject{Indexes: b.Indexes}
		for _, e := range b.Elems {
			out.Elems = append(out.Elems, compileBinder(e))
		}
		return out
	}
	return expr.BindDiscard{}
}
