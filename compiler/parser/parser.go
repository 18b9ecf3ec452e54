package parser

import (
	"fmt"
	"slices"

	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
)

// Words that introduce or delimit syntax and so cannot name a variable.
var reserved = []string{
	"All", "Any", "As", "By", "Call", "Collect", "Concatenate", "Const",
	"Count", "Date", "Default", "Define", "Description", "Dict", "Distinct",
	"Dump", "Else", "False", "First", "Fixed", "Flatten", "For", "Frequency",
	"From", "Function", "Group", "If", "In", "Input", "Into", "LeftJoin",
	"Let", "LexicalConcat", "List", "Matches", "Max", "Min", "None", "Olive",
	"PartitionCount", "Prefix", "Reduce", "RequiredServices", "Reverse",
	"Run", "Sort", "Squish", "Subsample", "Tag", "Then", "Timeout", "To",
	"True", "TypeAlias", "Univalued", "Where", "While", "With",
}

// Keywords that can only begin a top-level declaration.  Input is left
// out since it also appears in For sources.
var topLevel = []string{
	"Const", "Define", "Frequency", "Function", "Olive",
	"RequiredServices", "Timeout", "TypeAlias",
}

type parser struct {
	lex    *lexer
	files  *srcfiles.List
	tok    token
	ahead  []token
	failed bool
	// End of the previously consumed token.
	prevEnd int
}

func newParser(files *srcfiles.List, start, limit int) *parser {
	p := &parser{lex: newLexer(files.Text, start, limit), files: files}
	p.next()
	return p
}

func (p *parser) next() {
	p.prevEnd = p.tok.end
	if len(p.ahead) > 0 {
		p.tok = p.ahead[0]
		p.ahead = p.ahead[1:]
	} else {
		p.tok = p.lex.next()
	}
	if p.tok.kind == tokIllegal {
		p.error(p.tok.pos, p.tok.end, p.tok.err)
	}
}

// peek returns the n-th token after the current one.
func (p *parser) peek(n int) token {
	for len(p.ahead) < n {
		p.ahead = append(p.ahead, p.lex.next())
	}
	return p.ahead[n-1]
}

// rescan drops any lookahead so the lexer continues right after the
// current token.
func (p *parser) rescan() {
	p.ahead = nil
	p.lex.off = p.tok.end
}

// error records a parse error.  Only the first error of a declaration is
// reported since the rest are usually caused by it.
func (p *parser) error(pos, end int, msg string) {
	if p.failed {
		return
	}
	p.failed = true
	p.files.AddError(srcfiles.ParseError, msg, pos, end)
}

func (p *parser) errorf(format string, args ...any) {
	p.error(p.tok.pos, p.tok.end, fmt.Sprintf(format, args...))
}

func (p *parser) isKeyword(kw string) bool {
	return p.tok.kind == tokIdent && p.tok.text == kw
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) bool {
	if p.acceptKeyword(kw) {
		return true
	}
	p.errorf("expected %q, got %s", kw, p.tok)
	return false
}

func (p *parser) isPunct(s string) bool {
	return p.tok.kind == tokPunct && p.tok.text == s
}

func (p *parser) acceptPunct(s string) bool {
	if p.isPunct(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) bool {
	if p.acceptPunct(s) {
		return true
	}
	p.errorf("expected %q, got %s", s, p.tok)
	return false
}

func (p *parser) ident() *ast.ID {
	if p.tok.kind != tokIdent || slices.Contains(reserved, p.tok.text) {
		p.errorf("expected identifier, got %s", p.tok)
		return ast.NewID("", p.tok.pos, p.tok.pos)
	}
	id := ast.NewID(p.tok.text, p.tok.pos, p.tok.end)
	p.next()
	return id
}

func (p *parser) integer() (int64, int) {
	pos := p.tok.pos
	if p.tok.kind != tokInt {
		p.errorf("expected integer, got %s", p.tok)
		return 0, pos
	}
	n := p.tok.ival
	p.next()
	return n, pos
}

func (p *parser) loc(pos int) ast.Loc {
	return ast.NewLoc(pos, max(p.prevEnd, pos))
}

func (p *parser) program() *ast.Program {
	prog := &ast.Program{Kind: "Program"}
	for p.tok.kind != tokEOF {
		start := p.tok.pos
		decl := p.decl()
		if p.failed {
			p.sync(start)
			decl = &ast.BadDecl{Kind: "BadDecl", Loc: ast.NewLoc(start, p.tok.pos)}
			p.failed = false
		}
		prog.Decls = append(prog.Decls, decl)
	}
	prog.Loc = ast.NewLoc(0, p.tok.pos)
	return prog
}

// sync skips to the start of the next top-level declaration.
func (p *parser) sync(start int) {
	for p.tok.kind != tokEOF {
		if p.tok.kind == tokIdent && p.tok.pos > start && slices.Contains(topLevel, p.tok.text) {
			return
		}
		if p.isPunct(";") {
			p.next()
			if p.tok.kind == tokEOF || p.isKeyword("Input") {
				return
			}
			continue
		}
		p.next()
	}
}
