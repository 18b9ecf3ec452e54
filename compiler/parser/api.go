package parser

import (
	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
)

type AST struct {
	prog  *ast.Program
	files *srcfiles.List
}

func (a *AST) Parsed() *ast.Program {
	return a.prog
}

func (a *AST) Files() *srcfiles.List {
	return a.files
}

// ParseText parses olive source text.  The AST is returned even when
// there are errors so callers can report every diagnostic; declarations
// that failed to parse are *ast.BadDecl.  The error, if any, is a
// srcfiles.ErrorList.
func ParseText(name, text string) (*AST, error) {
	return parse(srcfiles.NewList(name, text))
}

// ParseFiles parses the concatenation of the named files tracking file
// names and line numbers for error reporting.
func ParseFiles(filenames ...string) (*AST, error) {
	files, err := srcfiles.Concat(filenames, "")
	if err != nil {
		return nil, err
	}
	return parse(files)
}

func parse(files *srcfiles.List) (*AST, error) {
	p := newParser(files, 0, len(files.Text))
	prog := p.program()
	return &AST{prog, files}, files.Error()
}
