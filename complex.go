package shesmu

import (
	"slices"
	"strconv"
	"strings"
)

type TypeList struct {
	Inner Type
}

// NewTypeList returns the list of inner.  A list of bad is bad.
func NewTypeList(inner Type) Type {
	if IsBad(inner) {
		return TypeBad
	}
	return &TypeList{inner}
}

func (*TypeList) Kind() Kind           { return ListKind }
func (t *TypeList) Descriptor() string { return "a" + t.Inner.Descriptor() }
func (t *TypeList) Name() string       { return "[" + t.Inner.Name() + "]" }

type TypeOptional struct {
	Inner Type
}

// NewTypeOptional returns the optional of inner.  Optionals do not nest so
// the optional of an optional is the optional itself.
func NewTypeOptional(inner Type) Type {
	switch inner.Kind() {
	case BadKind:
		return TypeBad
	case OptionalKind, NothingKind:
		return inner
	}
	return &TypeOptional{inner}
}

func (*TypeOptional) Kind() Kind           { return OptionalKind }
func (t *TypeOptional) Descriptor() string { return "q" + t.Inner.Descriptor() }
func (t *TypeOptional) Name() string       { return t.Inner.Name() + "?" }

type TypeMap struct {
	Key   Type
	Value Type
}

func NewTypeMap(key, val Type) Type {
	if IsBad(key) || IsBad(val) {
		return TypeBad
	}
	return &TypeMap{key, val}
}

func (*TypeMap) Kind() Kind { return MapKind }

func (t *TypeMap) Descriptor() string {
	return "m" + t.Key.Descriptor() + t.Value.Descriptor()
}

func (t *TypeMap) Name() string {
	return "Dict[" + t.Key.Name() + ", " + t.Value.Name() + "]"
}

type TypeTuple struct {
	Elems []Type
}

func NewTypeTuple(elems ...Type) Type {
	if slices.ContainsFunc(elems, IsBad) {
		return TypeBad
	}
	return &TypeTuple{elems}
}

func (*TypeTuple) Kind() Kind { return TupleKind }

func (t *TypeTuple) Descriptor() string {
	var b strings.Builder
	b.WriteByte('t')
	b.WriteString(strconv.Itoa(len(t.Elems)))
	for _, e := range t.Elems {
		b.WriteString(e.Descriptor())
	}
	return b.String()
}

func (t *TypeTuple) Name() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range t.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Name())
	}
	b.WriteByte('}')
	return b.String()
}

type Field struct {
	Name string
	Type Type
}

func NewField(name string, typ Type) Field {
	return Field{name, typ}
}

// TypeObject is a record type whose fields are kept in canonical
// (alphabetical) order regardless of how they were written.
type TypeObject struct {
	Fields []Field
}

// NewTypeObject sorts a copy of fields.  Duplicate field names make the
// object bad.
func NewTypeObject(fields []Field) Type {
	sorted := slices.Clone(fields)
	slices.SortStableFunc(sorted, func(a, b Field) int {
		return strings.Compare(a.Name, b.Name)
	})
	for i, f := range sorted {
		if IsBad(f.Type) {
			return TypeBad
		}
		if i > 0 && sorted[i-1].Name == f.Name {
			return TypeBad
		}
	}
	return &TypeObject{sorted}
}

func (*TypeObject) Kind() Kind { return ObjectKind }

func (t *TypeObject) Descriptor() string {
	var b strings.Builder
	b.WriteByte('o')
	b.WriteString(strconv.Itoa(len(t.Fields)))
	for _, f := range t.Fields {
		b.WriteString(f.Name)
		b.WriteByte('$')
		b.WriteString(f.Type.Descriptor())
	}
	return b.String()
}

func (t *TypeObject) Name() string {
	var b strings.Builder
	b.WriteString("O{")
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(" = ")
		b.WriteString(f.Type.Name())
	}
	b.WriteByte('}')
	return b.String()
}

// IndexOf returns the position of the named field or -1.
func (t *TypeObject) IndexOf(name string) int {
	i, ok := slices.BinarySearchFunc(t.Fields, name, func(f Field, name string) int {
		return strings.Compare(f.Name, name)
	})
	if !ok {
		return -1
	}
	return i
}

// AsList returns the list type of t or nil if t is not a list.  The empty
// list literal is a list of bad.
func AsList(t Type) *TypeList {
	switch t := t.(type) {
	case *TypeList:
		return t
	case *TypeOfEmpty:
		return &TypeList{TypeBad}
	}
	return nil
}

func AsOptional(t Type) *TypeOptional {
	switch t := t.(type) {
	case *TypeOptional:
		return t
	case *TypeOfNothing:
		return &TypeOptional{TypeBad}
	}
	return nil
}

// Inner returns the element type of a list or optional and bad otherwise.
func Inner(t Type) Type {
	switch t := t.(type) {
	case *TypeList:
		return t.Inner
	case *TypeOptional:
		return t.Inner
	}
	return TypeBad
}

// TupleElem returns the type of the i-th element of a tuple or bad.
func TupleElem(t Type, i int) Type {
	if t, ok := t.(*TypeTuple); ok && i >= 0 && i < len(t.Elems) {
		return t.Elems[i]
	}
	return TypeBad
}

// ObjectField returns the type of the named field of an object or bad.
func ObjectField(t Type, name string) Type {
	if t, ok := t.(*TypeObject); ok {
		if i := t.IndexOf(name); i >= 0 {
			return t.Fields[i].Type
		}
	}
	return TypeBad
}
