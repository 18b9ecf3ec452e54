package semantic

import (
	"fmt"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
)

func (a *analyzer) error(loc ast.Node, kind srcfiles.Kind, format string, args ...any) {
	a.files.AddError(kind, fmt.Sprintf(format, args...), loc.Pos(), loc.End())
}

// nameError reports an unresolved name with a suggestion when one of
// candidates is a plausible misspelling.
func (a *analyzer) nameError(loc ast.Node, what, name string, candidates []string) {
	if hint, ok := definitions.Closest(name, candidates); ok {
		a.error(loc, srcfiles.NameError, "%s %q; did you mean %q?", what, name, hint)
		return
	}
	a.error(loc, srcfiles.NameError, "%s %q", what, name)
}

// typeError reports that loc has type got where expected was needed.
// Nothing is reported when got is bad since bad is always the result of
// an error already reported.
func (a *analyzer) typeError(loc ast.Node, expected string, got shesmu.Type) {
	if shesmu.IsBad(got) {
		return
	}
	a.error(loc, srcfiles.TypeError, "expected %s, got %s", expected, got.Name())
}

// expect checks that got is the same as want.
func (a *analyzer) expect(loc ast.Node, want, got shesmu.Type) bool {
	if shesmu.IsBad(want) || shesmu.IsBad(got) {
		return false
	}
	if !shesmu.IsSame(want, got) {
		a.typeError(loc, want.Name(), got)
		return false
	}
	return true
}

func (a *analyzer) boolean(loc ast.Node, typ shesmu.Type) bool {
	return a.expect(loc, shesmu.TypeBool, typ)
}

func (a *analyzer) integer(loc ast.Node, typ shesmu.Type) bool {
	return a.expect(loc, shesmu.TypeInt, typ)
}

func (a *analyzer) orderable(loc ast.Node, typ shesmu.Type) bool {
	if shesmu.IsBad(typ) {
		return false
	}
	if !shesmu.IsOrderable(typ) {
		a.typeError(loc, "orderable type", typ)
		return false
	}
	return true
}

func isNumber(t shesmu.Type) bool {
	k := t.Kind()
	return k == shesmu.IntKind || k == shesmu.FloatKind
}

// semType converts a type expression to a type, reporting unknown names
// and malformed composites.
func (a *analyzer) semType(t ast.Type) shesmu.Type {
	switch t := t.(type) {
	case *ast.BadType:
		return shesmu.TypeBad
	case *ast.TypeName:
		if typ := shesmu.LookupPrimitive(t.Name); typ != nil {
			return typ
		}
		if typ, ok := a.aliases[t.Name]; ok {
			return typ
		}
		candidates := []string{"boolean", "date", "float", "integer", "json", "path", "string"}
		for name := range a.aliases {
			candidates = append(candidates, name)
		}
		a.nameError(t, "unknown type", t.Name, candidates)
		return shesmu.TypeBad
	case *ast.TypeList:
		return shesmu.NewTypeList(a.semType(t.Inner))
	case *ast.TypeOptional:
		return shesmu.NewTypeOptional(a.semType(t.Inner))
	case *ast.TypeTuple:
		elems := make([]shesmu.Type, 0, len(t.Elems))
		for _, e := range t.Elems {
			elems = append(elems, a.semType(e))
		}
		return shesmu.NewTypeTuple(elems...)
	case *ast.TypeObject:
		fields := make([]shesmu.Field, 0, len(t.Fields))
		seen := make(map[string]bool)
		bad := false
		for _, f := range t.Fields {
			if seen[f.Name.Name] {
				a.error(f.Name, srcfiles.NameError, "duplicate field %q", f.Name.Name)
				bad = true
			}
			seen[f.Name.Name] = true
			fields = append(fields, shesmu.NewField(f.Name.Name, a.semType(f.Type)))
		}
		if bad {
			return shesmu.TypeBad
		}
		return shesmu.NewTypeObject(fields)
	case *ast.TypeMap:
		return shesmu.NewTypeMap(a.semType(t.Key), a.semType(t.Value))
	case *ast.TypeIn:
		inner := a.semType(t.Inner)
		list := shesmu.AsList(inner)
		if list == nil || inner.Kind() != shesmu.ListKind {
			a.typeError(t.Inner, "list", inner)
			return shesmu.TypeBad
		}
		return list.Inner
	case *ast.TypeUntuple:
		inner := a.semType(t.Inner)
		if shesmu.IsBad(inner) {
			return inner
		}
		tuple, ok := inner.(*shesmu.TypeTuple)
		if !ok {
			a.typeError(t.Inner, "tuple", inner)
			return shesmu.TypeBad
		}
		if t.Index < 0 || t.Index >= len(tuple.Elems) {
			a.error(t, srcfiles.TypeError, "index %d out of range for %s", t.Index, inner.Name())
			return shesmu.TypeBad
		}
		return tuple.Elems[t.Index]
	}
	panic(fmt.Sprintf("semantic: unknown type node %T", t))
}
