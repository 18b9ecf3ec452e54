package parser

import (
	"slices"

	"github.com/araddon/dateparse"
	"github.com/oicr-gsi/shesmu/compiler/ast"
)

func (p *parser) expr() ast.Expr {
	return p.or()
}

func (p *parser) binary(pos int, op string, lhs, rhs ast.Expr) ast.Expr {
	return &ast.BinaryExpr{Kind: "BinaryExpr", Op: op, LHS: lhs, RHS: rhs, Loc: p.loc(pos)}
}

func (p *parser) or() ast.Expr {
	pos := p.tok.pos
	e := p.and()
	for p.isPunct("||") {
		p.next()
		e = p.binary(pos, "||", e, p.and())
	}
	return e
}

func (p *parser) and() ast.Expr {
	pos := p.tok.pos
	e := p.comparison()
	for p.isPunct("&&") {
		p.next()
		e = p.binary(pos, "&&", e, p.comparison())
	}
	return e
}

var comparisons = []string{"==", "!=", "<", "<=", ">", ">="}

func (p *parser) comparison() ast.Expr {
	pos := p.tok.pos
	e := p.additive()
	switch {
	case p.tok.kind == tokPunct && slices.Contains(comparisons, p.tok.text):
		op := p.tok.text
		p.next()
		return p.binary(pos, op, e, p.additive())
	case p.isKeyword("In"):
		p.next()
		return p.binary(pos, "In", e, p.additive())
	case p.isPunct("~"):
		p.rescan()
		pattern, start, end, ok := p.lex.regex()
		if !ok {
			p.error(start, end, "expected regular expression /.../ after ~")
		}
		p.next()
		return &ast.RegexExpr{Kind: "RegexExpr", Expr: e, Pattern: pattern, Loc: p.loc(pos)}
	}
	return e
}

func (p *parser) additive() ast.Expr {
	pos := p.tok.pos
	e := p.multiplicative()
	for p.isPunct("+") || p.isPunct("-") {
		op := p.tok.text
		p.next()
		e = p.binary(pos, op, e, p.multiplicative())
	}
	return e
}

func (p *parser) multiplicative() ast.Expr {
	pos := p.tok.pos
	e := p.unary()
	for p.isPunct("*") || p.isPunct("/") || p.isPunct("%") {
		op := p.tok.text
		p.next()
		e = p.binary(pos, op, e, p.unary())
	}
	return e
}

func (p *parser) unary() ast.Expr {
	pos := p.tok.pos
	if p.isPunct("!") || p.isPunct("-") {
		op := p.tok.text
		p.next()
		operand := p.unary()
		return &ast.UnaryExpr{Kind: "UnaryExpr", Op: op, Operand: operand, Loc: p.loc(pos)}
	}
	return p.postfix()
}

func (p *parser) postfix() ast.Expr {
	pos := p.tok.pos
	e := p.primary()
	for !p.failed {
		switch {
		case p.isPunct("."):
			p.next()
			field := p.ident()
			e = &ast.DotExpr{Kind: "DotExpr", Expr: e, Field: field, Loc: p.loc(pos)}
		case p.isPunct("[") && p.peek(1).kind == tokInt:
			p.next()
			n, _ := p.integer()
			p.expectPunct("]")
			e = &ast.IndexExpr{Kind: "IndexExpr", Expr: e, Index: int(n), Loc: p.loc(pos)}
		case p.isKeyword("As"):
			p.next()
			typ := p.typ()
			e = &ast.ConvertExpr{Kind: "ConvertExpr", Expr: e, Type: typ, Loc: p.loc(pos)}
		default:
			return e
		}
	}
	return e
}

func (p *parser) primary() ast.Expr {
	pos := p.tok.pos
	switch p.tok.kind {
	case tokInt:
		n := p.tok.ival
		p.next()
		return &ast.IntLiteral{Kind: "IntLiteral", Value: n, Loc: p.loc(pos)}
	case tokFloat:
		f := p.tok.fval
		p.next()
		return &ast.FloatLiteral{Kind: "FloatLiteral", Value: f, Loc: p.loc(pos)}
	case tokString:
		return p.str()
	case tokPath:
		path := p.tok.text
		p.next()
		return &ast.PathLiteral{Kind: "PathLiteral", Value: path, Loc: p.loc(pos)}
	case tokIdent:
		return p.identExpr()
	case tokPunct:
		switch p.tok.text {
		case "(":
			p.next()
			e := p.expr()
			p.expectPunct(")")
			return e
		case "[":
			p.next()
			var elems []ast.Expr
			if !p.isPunct("]") {
				elems = p.exprList()
			}
			p.expectPunct("]")
			return &ast.ListExpr{Kind: "ListExpr", Elems: elems, Loc: p.loc(pos)}
		case "{":
			return p.braces()
		case "`":
			p.next()
			var e ast.Expr
			if !p.isPunct("`") {
				e = p.expr()
			}
			p.expectPunct("`")
			return &ast.OptionalExpr{Kind: "OptionalExpr", Expr: e, Loc: p.loc(pos)}
		}
	}
	p.errorf("expected expression, got %s", p.tok)
	return &ast.BadExpr{Kind: "BadExpr", Loc: ast.NewLoc(pos, p.tok.end)}
}

func (p *parser) identExpr() ast.Expr {
	pos := p.tok.pos
	switch p.tok.text {
	case "True", "False":
		b := p.tok.text == "True"
		p.next()
		return &ast.BoolLiteral{Kind: "BoolLiteral", Value: b, Loc: p.loc(pos)}
	case "If":
		p.next()
		cond := p.expr()
		p.expectKeyword("Then")
		then := p.expr()
		p.expectKeyword("Else")
		els := p.expr()
		return &ast.CondExpr{Kind: "CondExpr", Cond: cond, Then: then, Else: els, Loc: p.loc(pos)}
	case "For":
		return p.forExpr()
	case "Date":
		p.rescan()
		text, start, end := p.lex.word()
		p.next()
		d, err := dateparse.ParseAny(text)
		if err != nil {
			p.error(start, end, "bad date literal "+text)
			return &ast.BadExpr{Kind: "BadExpr", Loc: p.loc(pos)}
		}
		return &ast.DateLiteral{Kind: "DateLiteral", Value: d.UTC(), Loc: p.loc(pos)}
	}
	if slices.Contains(reserved, p.tok.text) {
		p.errorf("expected expression, got %s", p.tok)
		return &ast.BadExpr{Kind: "BadExpr", Loc: ast.NewLoc(pos, p.tok.end)}
	}
	name := p.ident()
	if p.isPunct("(") {
		args := p.args()
		return &ast.CallExpr{Kind: "CallExpr", Name: name, Args: args, Loc: p.loc(pos)}
	}
	return &ast.IDExpr{Kind: "IDExpr", ID: *name}
}

// braces parses a tuple "{a, b}" or an object "{a = 1, b = 2}".
func (p *parser) braces() ast.Expr {
	pos := p.tok.pos
	p.next()
	if p.tok.kind == tokIdent && p.peek(1).kind == tokPunct && p.peek(1).text == "=" {
		var fields []ast.FieldValue
		for !p.failed {
			name := p.ident()
			p.expectPunct("=")
			fields = append(fields, ast.FieldValue{Name: name, Value: p.expr()})
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct("}")
		return &ast.ObjectExpr{Kind: "ObjectExpr", Fields: fields, Loc: p.loc(pos)}
	}
	var elems []ast.Expr
	if !p.isPunct("}") {
		elems = p.exprList()
	}
	p.expectPunct("}")
	return &ast.TupleExpr{Kind: "TupleExpr", Elems: elems, Loc: p.loc(pos)}
}

// str converts a string token, parsing each interpolation in place.
func (p *parser) str() ast.Expr {
	tok := p.tok
	var parts []ast.StringPart
	for _, raw := range tok.parts {
		part := ast.StringPart{Text: raw.text, Width: raw.width, Format: raw.format, Loc: ast.NewLoc(raw.pos, raw.end)}
		if raw.interp {
			sub := newParser(p.files, raw.pos, raw.end)
			sub.failed = p.failed
			part.Expr = sub.expr()
			if sub.tok.kind != tokEOF {
				sub.errorf("unexpected %s in interpolation", sub.tok)
			}
			p.failed = p.failed || sub.failed
		}
		parts = append(parts, part)
	}
	p.next()
	return &ast.StringExpr{Kind: "StringExpr", Parts: parts, Loc: ast.NewLoc(tok.pos, tok.end)}
}
