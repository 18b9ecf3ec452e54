package parser

import (
	"github.com/oicr-gsi/shesmu/compiler/ast"
)

func (p *parser) typ() ast.Type {
	pos := p.tok.pos
	t := p.primaryType()
	for !p.failed {
		switch {
		case p.isPunct("?"):
			p.next()
			t = &ast.TypeOptional{Kind: "TypeOptional", Inner: t, Loc: p.loc(pos)}
		case p.isPunct("[") && p.peek(1).kind == tokInt:
			p.next()
			n, _ := p.integer()
			p.expectPunct("]")
			t = &ast.TypeUntuple{Kind: "TypeUntuple", Inner: t, Index: int(n), Loc: p.loc(pos)}
		default:
			return t
		}
	}
	return t
}

func (p *parser) primaryType() ast.Type {
	pos := p.tok.pos
	switch {
	case p.isKeyword("O") && p.peek(1).kind == tokPunct && p.peek(1).text == "{":
		p.next()
		p.next()
		var fields []ast.TypeField
		for !p.failed && !p.isPunct("}") {
			name := p.ident()
			p.expectPunct("=")
			fields = append(fields, ast.TypeField{Name: name, Type: p.typ()})
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct("}")
		return &ast.TypeObject{Kind: "TypeObject", Fields: fields, Loc: p.loc(pos)}
	case p.isKeyword("Dict") && p.peek(1).kind == tokPunct && p.peek(1).text == "[":
		p.next()
		p.next()
		key := p.typ()
		p.expectPunct(",")
		val := p.typ()
		p.expectPunct("]")
		return &ast.TypeMap{Kind: "TypeMap", Key: key, Value: val, Loc: p.loc(pos)}
	case p.acceptKeyword("In"):
		inner := p.typ()
		return &ast.TypeIn{Kind: "TypeIn", Inner: inner, Loc: p.loc(pos)}
	case p.tok.kind == tokIdent:
		name := p.tok.text
		p.next()
		return &ast.TypeName{Kind: "TypeName", Name: name, Loc: p.loc(pos)}
	case p.acceptPunct("["):
		inner := p.typ()
		p.expectPunct("]")
		return &ast.TypeList{Kind: "TypeList", Inner: inner, Loc: p.loc(pos)}
	case p.acceptPunct("{"):
		var elems []ast.Type
		for !p.failed && !p.isPunct("}") {
			elems = append(elems, p.typ())
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct("}")
		return &ast.TypeTuple{Kind: "TypeTuple", Elems: elems, Loc: p.loc(pos)}
	case p.acceptPunct("("):
		t := p.typ()
		p.expectPunct(")")
		return t
	}
	p.errorf("expected type, got %s", p.tok)
	return &ast.BadType{Kind: "BadType", Loc: p.loc(pos)}
}
