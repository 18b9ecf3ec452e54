// Package shesmu holds the Imyhat type lattice and the runtime value model
// shared by the olive compiler and the stream engine.
package shesmu

type Kind int

const (
	BoolKind Kind = iota
	IntKind
	FloatKind
	StringKind
	DateKind
	PathKind
	JSONKind
	BadKind
	EmptyKind
	NothingKind
	ListKind
	OptionalKind
	MapKind
	TupleKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "boolean"
	case IntKind:
		return "integer"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case DateKind:
		return "date"
	case PathKind:
		return "path"
	case JSONKind:
		return "json"
	case BadKind:
		return "bad"
	case EmptyKind:
		return "empty"
	case NothingKind:
		return "nothing"
	case ListKind:
		return "list"
	case OptionalKind:
		return "optional"
	case MapKind:
		return "dictionary"
	case TupleKind:
		return "tuple"
	case ObjectKind:
		return "object"
	}
	return "unknown"
}

// Type is a member of the Imyhat lattice.  Every type has a compact
// descriptor (see ParseDescriptor) and a name as a user would write it in
// an olive.
type Type interface {
	Kind() Kind
	Descriptor() string
	Name() string
}

var (
	TypeBool    = &TypeOfBool{}
	TypeInt     = &TypeOfInt{}
	TypeFloat   = &TypeOfFloat{}
	TypeString  = &TypeOfString{}
	TypeDate    = &TypeOfDate{}
	TypePath    = &TypeOfPath{}
	TypeJSON    = &TypeOfJSON{}
	TypeBad     = &TypeOfBad{}
	TypeEmpty   = &TypeOfEmpty{}
	TypeNothing = &TypeOfNothing{}
)

// LookupPrimitive returns the primitive type with the given user-facing
// name or nil.
func LookupPrimitive(name string) Type {
	switch name {
	case "boolean":
		return TypeBool
	case "integer":
		return TypeInt
	case "float":
		return TypeFloat
	case "string":
		return TypeString
	case "date":
		return TypeDate
	case "path":
		return TypePath
	case "json":
		return TypeJSON
	}
	return nil
}

func IsBad(t Type) bool {
	return t == nil || t.Kind() == BadKind
}

// IsOrderable reports whether values of t can be compared with < and
// used by Sort, Max and Min.
func IsOrderable(t Type) bool {
	switch t.Kind() {
	case BoolKind, IntKind, FloatKind, StringKind, DateKind, PathKind:
		return true
	}
	return false
}

// IsPrimitive reports whether t is one of the scalar value types.
func IsPrimitive(t Type) bool {
	return IsOrderable(t) || t.Kind() == JSONKind
}
