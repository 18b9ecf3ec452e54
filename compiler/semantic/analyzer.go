// Package semantic resolves names, checks types and stream ordering, and
// translates a parsed olive program into a dag.Program.
package semantic

import (
	"slices"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/compiler/parser"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
	"github.com/oicr-gsi/shesmu/order"
)

// Analyze checks the parsed program against the definitions in reg.  If
// the program has no Input declaration, format names the input format of
// its olives.  The program is returned even when there are errors; the
// error, if any, is a srcfiles.ErrorList holding every diagnostic
// including those of the parser.
func Analyze(p *parser.AST, reg *definitions.Registry, format string) (*dag.Program, error) {
	a := newAnalyzer(p.Files(), reg)
	a.program(p.Parsed(), format)
	return a.prog, a.files.Error()
}

type analyzer struct {
	files   *srcfiles.List
	reg     *definitions.Registry
	format  *definitions.InputFormat
	global  *Scope
	aliases map[string]shesmu.Type
	defines map[string]*ast.DefineDecl
	prog    *dag.Program
	locals  *frame
	olive   *olive
}

func newAnalyzer(files *srcfiles.List, reg *definitions.Registry) *analyzer {
	return &analyzer{
		files:   files,
		reg:     reg,
		global:  NewScope(nil),
		aliases: make(map[string]shesmu.Type),
		defines: make(map[string]*ast.DefineDecl),
		prog:    &dag.Program{},
	}
}

// frame allocates local variable slots with stack discipline.
type frame struct {
	next int
	max  int
}

func (f *frame) alloc() int {
	slot := f.next
	f.next++
	f.max = max(f.max, f.next)
	return slot
}

type funcInfo struct {
	name   string
	slot   int
	params []shesmu.Type
	result shesmu.Type
}

// olive is the per-olive analysis state.
type olive struct {
	decl  *dag.Olive
	state order.Stream
	sigs  *sigTable
	// base is the scope under the stream: globals, or the parameters of
	// the Define being expanded.
	base *Scope
	// defines being expanded, to catch a Define that includes itself
	calls     []string
	inputRefs []string
}

func (o *olive) addInputRef(format string) {
	if !slices.Contains(o.inputRefs, format) {
		o.inputRefs = append(o.inputRefs, format)
	}
}

func (a *analyzer) program(prog *ast.Program, format string) {
	var olives []*ast.OliveDecl
	var formatDecl *ast.InputDecl
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *ast.InputDecl:
			if formatDecl != nil {
				a.error(d, srcfiles.NameError, "input format already declared as %q", formatDecl.Format.Name)
				continue
			}
			formatDecl = d
			format = d.Format.Name
		case *ast.PragmaDecl:
			a.pragma(d)
		case *ast.DefineDecl:
			if _, ok := a.defines[d.Name.Name]; ok {
				a.error(d.Name, srcfiles.NameError, "duplicate Define %q", d.Name.Name)
				continue
			}
			a.defines[d.Name.Name] = d
		case *ast.OliveDecl:
			olives = append(olives, d)
		}
	}
	if format != "" {
		a.format = a.reg.Format(format)
		if a.format == nil {
			var loc ast.Node = prog
			if formatDecl != nil {
				loc = formatDecl.Format
			}
			a.nameError(loc, "unknown input format", format, a.reg.FormatNames())
		}
	} else if len(olives) > 0 || len(a.defines) > 0 {
		a.error(prog, srcfiles.NameError, "no input format declared")
	}
	a.prog.Format = format
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *ast.TypeAliasDecl:
			a.typeAlias(d)
		case *ast.ConstDecl:
			a.constDecl(d)
		case *ast.FuncDecl:
			a.funcDecl(d)
		}
	}
	for _, d := range olives {
		a.oliveDecl(d)
	}
}

func (a *analyzer) pragma(d *ast.PragmaDecl) {
	switch d.Name {
	case "Timeout":
		a.prog.Timeout = d.Value
	case "Frequency":
		a.prog.Frequency = d.Value
	case "RequiredServices":
		for _, s := range d.Services {
			if !slices.Contains(a.prog.RequiredServices, s.Name) {
				a.prog.RequiredServices = append(a.prog.RequiredServices, s.Name)
			}
		}
	}
}

func (a *analyzer) typeAlias(d *ast.TypeAliasDecl) {
	if _, ok := a.aliases[d.Name.Name]; ok || shesmu.LookupPrimitive(d.Name.Name) != nil {
		a.error(d.Name, srcfiles.NameError, "duplicate type %q", d.Name.Name)
		return
	}
	a.aliases[d.Name.Name] = a.semType(d.Type)
}

func (a *analyzer) constDecl(d *ast.ConstDecl) {
	a.locals = &frame{}
	e := a.expr(a.global, d.Expr)
	def := &dag.ConstDef{Name: d.Name.Name, Expr: e, Locals: a.locals.max}
	ref := &dag.ConstRef{Kind: "ConstRef", Name: d.Name.Name, Slot: len(a.prog.Consts), Type: e.TypeOf()}
	if err := a.global.DefineAs(d.Name, &entry{ref: ref, flavour: constant}); err != nil {
		a.error(d.Name, srcfiles.NameError, "%s", err)
		return
	}
	a.prog.Consts = append(a.prog.Consts, def)
}

func (a *analyzer) funcDecl(d *ast.FuncDecl) {
	a.locals = &frame{}
	scope := NewScope(a.global)
	info := &funcInfo{name: d.Name.Name, slot: len(a.prog.Funcs)}
	for _, p := range d.Params {
		typ := a.semType(p.Type)
		info.params = append(info.params, typ)
		ref := &dag.LocalRef{Kind: "LocalRef", Name: p.Name.Name, Slot: a.locals.alloc(), Type: typ}
		if err := scope.DefineAs(p.Name, &entry{ref: ref, flavour: local}); err != nil {
			a.error(p.Name, srcfiles.NameError, "%s", err)
		}
	}
	body := a.expr(scope, d.Body)
	info.result = body.TypeOf()
	if d.Result != nil {
		info.result = a.semType(d.Result)
		a.expect(d.Body, info.result, body.TypeOf())
	}
	if a.reg.Function(d.Name.Name) != nil {
		a.error(d.Name, srcfiles.NameError, "function %q is already defined", d.Name.Name)
		return
	}
	if err := a.global.DefineAs(d.Name, &entry{flavour: function, fn: info}); err != nil {
		a.error(d.Name, srcfiles.NameError, "%s", err)
		return
	}
	a.prog.Funcs = append(a.prog.Funcs, &dag.FuncDef{
		Name:   d.Name.Name,
		Params: info.params,
		Result: info.result,
		Body:   body,
		Locals: a.locals.max,
	})
}
