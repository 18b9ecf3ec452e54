package parser

import (
	"github.com/oicr-gsi/shesmu/compiler/ast"
)

func (p *parser) forExpr() ast.Expr {
	pos := p.tok.pos
	p.next()
	pattern := p.pattern()
	source := p.source()
	p.acceptPunct(":")
	ops := p.listOps()
	p.acceptKeyword("Collect")
	collector := p.collector()
	return &ast.ForExpr{
		Kind:      "ForExpr",
		Pattern:   pattern,
		Source:    source,
		Ops:       ops,
		Collector: collector,
		Loc:       p.loc(pos),
	}
}

func (p *parser) source() ast.Source {
	pos := p.tok.pos
	switch {
	case p.acceptKeyword("In"):
		if p.acceptKeyword("Input") {
			format := p.ident()
			return &ast.InputSource{Kind: "InputSource", Format: format, Loc: p.loc(pos)}
		}
		e := p.expr()
		return &ast.ContainerSource{Kind: "ContainerSource", Expr: e, Loc: p.loc(pos)}
	case p.acceptKeyword("From"):
		from := p.expr()
		p.expectKeyword("To")
		to := p.expr()
		return &ast.RangeSource{Kind: "RangeSource", From: from, To: to, Loc: p.loc(pos)}
	}
	p.errorf("expected \"In\" or \"From\", got %s", p.tok)
	return &ast.ContainerSource{Kind: "ContainerSource", Expr: &ast.BadExpr{Kind: "BadExpr", Loc: p.loc(pos)}, Loc: p.loc(pos)}
}

func (p *parser) listOps() []ast.ListOp {
	var ops []ast.ListOp
	for !p.failed {
		pos := p.tok.pos
		var op ast.ListOp
		switch {
		case p.acceptKeyword("Where"):
			op = &ast.WhereOp{Kind: "WhereOp", Expr: p.expr()}
		case p.acceptKeyword("Let"):
			pattern := p.pattern()
			p.expectPunct("=")
			op = &ast.LetOp{Kind: "LetOp", Pattern: pattern, Expr: p.expr()}
		case p.acceptKeyword("Sort"):
			op = &ast.SortOp{Kind: "SortOp", Expr: p.expr()}
		case p.acceptKeyword("Reverse"):
			op = &ast.ReverseOp{Kind: "ReverseOp"}
		case p.acceptKeyword("Flatten"):
			pattern := p.pattern()
			op = &ast.FlattenOp{Kind: "FlattenOp", Pattern: pattern, Source: p.source()}
		case p.acceptKeyword("Distinct"):
			op = &ast.DistinctOp{Kind: "DistinctOp"}
		case p.acceptKeyword("Subsample"):
			paren := p.acceptPunct("(")
			var samplers []ast.Sampler
			for !p.failed {
				samplers = append(samplers, p.sampler())
				if !p.acceptPunct(",") {
					break
				}
			}
			if paren {
				p.expectPunct(")")
			}
			op = &ast.SubsampleOp{Kind: "SubsampleOp", Samplers: samplers}
		case p.isKeyword("Fixed"), p.isKeyword("Squish"):
			op = &ast.SubsampleOp{Kind: "SubsampleOp", Samplers: []ast.Sampler{p.sampler()}}
		default:
			return ops
		}
		setLoc(op, p.loc(pos))
		ops = append(ops, op)
	}
	return ops
}

func setLoc(op ast.ListOp, loc ast.Loc) {
	switch op := op.(type) {
	case *ast.WhereOp:
		op.Loc = loc
	case *ast.LetOp:
		op.Loc = loc
	case *ast.SortOp:
		op.Loc = loc
	case *ast.ReverseOp:
		op.Loc = loc
	case *ast.FlattenOp:
		op.Loc = loc
	case *ast.DistinctOp:
		op.Loc = loc
	case *ast.SubsampleOp:
		op.Loc = loc
	}
}

func (p *parser) sampler() ast.Sampler {
	pos := p.tok.pos
	switch {
	case p.acceptKeyword("Fixed"):
		s := &ast.FixedSampler{Kind: "FixedSampler", Count: p.expr()}
		if p.acceptKeyword("While") {
			s.While = p.expr()
		}
		s.Loc = p.loc(pos)
		return s
	case p.acceptKeyword("Squish"):
		count := p.expr()
		return &ast.SquishSampler{Kind: "SquishSampler", Count: count, Loc: p.loc(pos)}
	}
	p.errorf("expected \"Fixed\" or \"Squish\", got %s", p.tok)
	return &ast.SquishSampler{Kind: "SquishSampler", Count: &ast.BadExpr{Kind: "BadExpr"}, Loc: p.loc(pos)}
}

func (p *parser) collector() ast.Collector {
	pos := p.tok.pos
	if p.tok.kind != tokIdent {
		p.errorf("expected collector, got %s", p.tok)
		return &ast.CountCollector{Kind: "CountCollector", Loc: p.loc(pos)}
	}
	kw := p.tok.text
	switch kw {
	case "Count":
		p.next()
		return &ast.CountCollector{Kind: "CountCollector", Loc: p.loc(pos)}
	case "List":
		p.next()
		e := p.expr()
		return &ast.ListCollector{Kind: "ListCollector", Expr: e, Loc: p.loc(pos)}
	case "Dict":
		p.next()
		paren := p.acceptPunct("(")
		key := p.expr()
		p.expectPunct("=")
		val := p.expr()
		if paren {
			p.expectPunct(")")
		}
		return &ast.DictCollector{Kind: "DictCollector", Key: key, Value: val, Loc: p.loc(pos)}
	case "First":
		p.next()
		c := &ast.FirstCollector{Kind: "FirstCollector", Expr: p.expr()}
		if p.acceptKeyword("Default") {
			c.Default = p.expr()
		}
		c.Loc = p.loc(pos)
		return c
	case "Univalued":
		p.next()
		e := p.expr()
		return &ast.UnivaluedCollector{Kind: "UnivaluedCollector", Expr: e, Loc: p.loc(pos)}
	case "Max", "Min":
		p.next()
		c := &ast.OptimaCollector{Kind: "OptimaCollector", Max: kw == "Max", Expr: p.expr()}
		if p.acceptKeyword("Default") {
			c.Default = p.expr()
		}
		c.Loc = p.loc(pos)
		return c
	case "Reduce":
		p.next()
		p.expectPunct("(")
		acc := p.pattern()
		p.expectPunct("=")
		initial := p.expr()
		p.expectPunct(")")
		e := p.expr()
		return &ast.ReduceCollector{Kind: "ReduceCollector", Accumulator: acc, Initial: initial, Expr: e, Loc: p.loc(pos)}
	case "PartitionCount":
		p.next()
		e := p.expr()
		return &ast.PartitionCountCollector{Kind: "PartitionCountCollector", Expr: e, Loc: p.loc(pos)}
	case "Concatenate", "LexicalConcat":
		p.next()
		e := p.expr()
		p.expectKeyword("With")
		delim := p.expr()
		return &ast.ConcatCollector{Kind: "ConcatCollector", Lexical: kw == "LexicalConcat", Expr: e, Delimiter: delim, Loc: p.loc(pos)}
	case "Matches":
		p.next()
		if !p.isKeyword("Any") && !p.isKeyword("All") && !p.isKeyword("None") {
			p.errorf("expected \"Any\", \"All\" or \"None\", got %s", p.tok)
			return &ast.CountCollector{Kind: "CountCollector", Loc: p.loc(pos)}
		}
		return p.collector()
	case "Any", "All", "None":
		p.next()
		e := p.expr()
		return &ast.MatchesCollector{Kind: "MatchesCollector", Quantifier: kw, Expr: e, Loc: p.loc(pos)}
	}
	p.errorf("expected collector, got %s", p.tok)
	return &ast.CountCollector{Kind: "CountCollector", Loc: p.loc(pos)}
}

func (p *parser) pattern() ast.Pattern {
	pos := p.tok.pos
	if p.isKeyword("_") {
		p.next()
		return &ast.DiscardPattern{Kind: "DiscardPattern", Loc: p.loc(pos)}
	}
	if !p.acceptPunct("{") {
		name := p.ident()
		return &ast.NamePattern{Kind: "NamePattern", Name: name, Loc: p.loc(pos)}
	}
	var elems []ast.Pattern
	var fields []ast.FieldPattern
	named := false
	for !p.failed && !p.isPunct("}") {
		if p.tok.kind == tokIdent && p.peek(1).kind == tokPunct && p.peek(1).text == "=" {
			named = true
			name := p.ident()
			p.next()
			fields = append(fields, ast.FieldPattern{Name: name, Pattern: p.pattern()})
		} else {
			elem := p.pattern()
			elems = append(elems, elem)
			if n, ok := elem.(*ast.NamePattern); ok {
				fields = append(fields, ast.FieldPattern{Name: n.Name})
			} else {
				fields = append(fields, ast.FieldPattern{})
			}
		}
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct("}")
	if named {
		for _, f := range fields {
			if f.Name == nil {
				p.error(pos, p.prevEnd, "object pattern fields must be named")
				break
			}
		}
		return &ast.ObjectPattern{Kind: "ObjectPattern", Fields: fields, Loc: p.loc(pos)}
	}
	return &ast.TuplePattern{Kind: "TuplePattern", Elems: elems, Loc: p.loc(pos)}
}
