package parser

import (
	"github.com/oicr-gsi/shesmu/compiler/ast"
)

// clauses parses clauses until a token that cannot start one.
func (p *parser) clauses() []ast.Clause {
	var clauses []ast.Clause
	for !p.failed {
		c := p.clause()
		if c == nil {
			break
		}
		clauses = append(clauses, c)
	}
	return clauses
}

func (p *parser) clause() ast.Clause {
	pos := p.tok.pos
	switch {
	case p.acceptKeyword("Where"):
		e := p.expr()
		return &ast.WhereClause{Kind: "WhereClause", Expr: e, Loc: p.loc(pos)}
	case p.acceptKeyword("Let"):
		bindings := p.bindings()
		return &ast.LetClause{Kind: "LetClause", Bindings: bindings, Loc: p.loc(pos)}
	case p.acceptKeyword("Group"):
		p.expectKeyword("By")
		by := p.bindings()
		p.expectKeyword("Into")
		into := p.outputs()
		return &ast.GroupClause{Kind: "GroupClause", By: by, Into: into, Loc: p.loc(pos)}
	case p.acceptKeyword("LeftJoin"):
		join := &ast.LeftJoinClause{Kind: "LeftJoinClause"}
		join.Outer = p.expr()
		p.expectKeyword("To")
		if p.acceptKeyword("Prefix") {
			join.Prefix = p.ident()
		}
		join.Format = p.ident()
		join.Inner = p.expr()
		if p.acceptKeyword("Where") {
			join.Where = p.expr()
		}
		p.expectKeyword("Into")
		join.Into = p.outputs()
		join.Loc = p.loc(pos)
		return join
	case p.acceptKeyword("Flatten"):
		pattern := p.pattern()
		p.expectKeyword("In")
		e := p.expr()
		return &ast.FlattenClause{Kind: "FlattenClause", Pattern: pattern, Expr: e, Loc: p.loc(pos)}
	case p.acceptKeyword("Call"):
		name := p.ident()
		args := p.args()
		return &ast.CallClause{Kind: "CallClause", Name: name, Args: args, Loc: p.loc(pos)}
	case p.acceptKeyword("Dump"):
		dump := &ast.DumpClause{Kind: "DumpClause"}
		if p.acceptKeyword("All") {
			dump.All = true
		} else {
			dump.Exprs = p.exprList()
		}
		p.expectKeyword("To")
		dump.Dumper = p.ident()
		dump.Loc = p.loc(pos)
		return dump
	}
	return nil
}

// bindings parses "a = expr, b, ..." where a bare name stands for itself.
func (p *parser) bindings() []ast.Binding {
	var out []ast.Binding
	for !p.failed {
		b := ast.Binding{Name: p.ident()}
		if p.acceptPunct("=") {
			b.Expr = p.expr()
		}
		out = append(out, b)
		if !p.acceptPunct(",") {
			break
		}
	}
	return out
}

// outputs parses "name = [Where p] collector, ..." of Group and LeftJoin.
func (p *parser) outputs() []ast.Output {
	var out []ast.Output
	for !p.failed {
		o := ast.Output{Name: p.ident()}
		p.expectPunct("=")
		if p.acceptKeyword("Where") {
			o.Where = p.expr()
		}
		o.Collector = p.collector()
		out = append(out, o)
		if !p.acceptPunct(",") {
			break
		}
	}
	return out
}

func (p *parser) args() []ast.Expr {
	if !p.expectPunct("(") {
		return nil
	}
	if p.acceptPunct(")") {
		return nil
	}
	args := p.exprList()
	p.expectPunct(")")
	return args
}

func (p *parser) exprList() []ast.Expr {
	var list []ast.Expr
	for !p.failed {
		list = append(list, p.expr())
		if !p.acceptPunct(",") {
			break
		}
	}
	return list
}
