// Package compiler turns olive source into an analyzed dag.Program.
package compiler

import (
	"errors"

	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/compiler/parser"
	"github.com/oicr-gsi/shesmu/compiler/semantic"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
)

// Compile analyzes a parsed program.  The error, if any, is a
// srcfiles.ErrorList holding the diagnostics of both parsing and
// analysis.
func Compile(a *parser.AST, reg *definitions.Registry, format string) (*dag.Program, error) {
	return semantic.Analyze(a, reg, format)
}

// CompileText parses and analyzes olive source.
func CompileText(name, text string, reg *definitions.Registry, format string) (*dag.Program, error) {
	a, err := parser.ParseText(name, text)
	if err != nil && !isDiagnostic(err) {
		return nil, err
	}
	return Compile(a, reg, format)
}

// CompileFiles parses and analyzes the concatenation of files.
func CompileFiles(reg *definitions.Registry, format string, files ...string) (*dag.Program, error) {
	a, err := parser.ParseFiles(files...)
	if err != nil && !isDiagnostic(err) {
		return nil, err
	}
	return Compile(a, reg, format)
}

func isDiagnostic(err error) bool {
	var list srcfiles.ErrorList
	return errors.As(err, &list)
}
