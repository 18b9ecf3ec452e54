package parser

import (
	"github.com/oicr-gsi/shesmu/compiler/ast"
)

func (p *parser) decl() ast.Decl {
	pos := p.tok.pos
	switch {
	case p.acceptKeyword("Input"):
		format := p.ident()
		p.expectPunct(";")
		return &ast.InputDecl{Kind: "InputDecl", Format: format, Loc: p.loc(pos)}
	case p.isKeyword("Timeout"), p.isKeyword("Frequency"):
		name := p.tok.text
		p.next()
		n, _ := p.integer()
		p.expectPunct(";")
		return &ast.PragmaDecl{Kind: "PragmaDecl", Name: name, Value: n, Loc: p.loc(pos)}
	case p.acceptKeyword("RequiredServices"):
		services := []*ast.ID{p.ident()}
		for p.acceptPunct(",") {
			services = append(services, p.ident())
		}
		p.expectPunct(";")
		return &ast.PragmaDecl{Kind: "PragmaDecl", Name: "RequiredServices", Services: services, Loc: p.loc(pos)}
	case p.acceptKeyword("TypeAlias"):
		name := p.ident()
		typ := p.typ()
		p.expectPunct(";")
		return &ast.TypeAliasDecl{Kind: "TypeAliasDecl", Name: name, Type: typ, Loc: p.loc(pos)}
	case p.acceptKeyword("Const"):
		name := p.ident()
		p.expectPunct("=")
		e := p.expr()
		p.expectPunct(";")
		return &ast.ConstDecl{Kind: "ConstDecl", Name: name, Expr: e, Loc: p.loc(pos)}
	case p.acceptKeyword("Function"):
		name := p.ident()
		params := p.params()
		var result ast.Type
		if !p.isPunct("=") {
			result = p.typ()
		}
		p.expectPunct("=")
		body := p.expr()
		p.expectPunct(";")
		return &ast.FuncDecl{Kind: "FuncDecl", Name: name, Params: params, Result: result, Body: body, Loc: p.loc(pos)}
	case p.acceptKeyword("Define"):
		name := p.ident()
		params := p.params()
		clauses := p.clauses()
		p.expectPunct(";")
		return &ast.DefineDecl{Kind: "DefineDecl", Name: name, Params: params, Clauses: clauses, Loc: p.loc(pos)}
	case p.acceptKeyword("Olive"):
		return p.olive(pos)
	}
	p.errorf("expected declaration, got %s", p.tok)
	return &ast.BadDecl{Kind: "BadDecl", Loc: p.loc(pos)}
}

func (p *parser) params() []ast.Param {
	if !p.expectPunct("(") {
		return nil
	}
	var params []ast.Param
	if p.acceptPunct(")") {
		return params
	}
	for !p.failed {
		name := p.ident()
		p.acceptPunct(":")
		params = append(params, ast.Param{Name: name, Type: p.typ()})
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return params
}

// olive parses either "Olive ... Run action clauses With ..." or
// "Olive ... clauses Run action With ...".
func (p *parser) olive(pos int) ast.Decl {
	olive := &ast.OliveDecl{Kind: "OliveDecl"}
	if p.acceptKeyword("Description") {
		if p.tok.kind != tokString || len(p.tok.parts) > 1 || len(p.tok.parts) == 1 && p.tok.parts[0].interp {
			p.errorf("expected plain string description, got %s", p.tok)
		} else {
			if len(p.tok.parts) == 1 {
				olive.Description = p.tok.parts[0].text
			}
			p.next()
		}
	}
	for p.acceptKeyword("Tag") {
		olive.Tags = append(olive.Tags, p.ident())
	}
	if !p.isKeyword("Run") {
		olive.Clauses = p.clauses()
	}
	p.expectKeyword("Run")
	olive.Action = p.ident()
	olive.Clauses = append(olive.Clauses, p.clauses()...)
	p.expectKeyword("With")
	brace := p.acceptPunct("{")
	for !p.failed {
		name := p.ident()
		p.expectPunct("=")
		olive.Args = append(olive.Args, ast.Binding{Name: name, Expr: p.expr()})
		if !p.acceptPunct(",") {
			break
		}
	}
	if brace {
		p.expectPunct("}")
	}
	p.expectPunct(";")
	olive.Loc = p.loc(pos)
	return olive
}
