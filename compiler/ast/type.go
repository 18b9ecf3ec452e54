package ast

// Type is a type expression.
type Type interface {
	Node
	typeNode()
}

type (
	BadType struct {
		Kind string `json:"kind"`
		Loc  `json:"loc"`
	}
	// TypeName is a primitive type or a type alias.
	TypeName struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
		Loc  `json:"loc"`
	}
	TypeList struct {
		Kind  string `json:"kind"`
		Inner Type   `json:"inner"`
		Loc   `json:"loc"`
	}
	TypeOptional struct {
		Kind  string `json:"kind"`
		Inner Type   `json:"inner"`
		Loc   `json:"loc"`
	}
	TypeTuple struct {
		Kind  string `json:"kind"`
		Elems []Type `json:"elems"`
		Loc   `json:"loc"`
	}
	TypeObject struct {
		Kind   string      `json:"kind"`
		Fields []TypeField `json:"fields"`
		Loc    `json:"loc"`
	}
	TypeMap struct {
		Kind  string `json:"kind"`
		Key   Type   `json:"key"`
		Value Type   `json:"value"`
		Loc   `json:"loc"`
	}
	// TypeIn is "In T", the element type of the list type T.
	TypeIn struct {
		Kind  string `json:"kind"`
		Inner Type   `json:"inner"`
		Loc   `json:"loc"`
	}
	// TypeUntuple is "T[n]", the type of element n of the tuple type T.
	TypeUntuple struct {
		Kind  string `json:"kind"`
		Inner Type   `json:"inner"`
		Index int    `json:"index"`
		Loc   `json:"loc"`
	}
)

type TypeField struct {
	Name *ID  `json:"name"`
	Type Type `json:"type"`
}

func (*BadType) typeNode()      {}
func (*TypeName) typeNode()     {}
func (*TypeList) typeNode()     {}
func (*TypeOptional) typeNode() {}
func (*TypeTuple) typeNode()    {}
func (*TypeObject) typeNode()   {}
func (*TypeMap) typeNode()      {}
func (*TypeIn) typeNode()       {}
func (*TypeUntuple) typeNode()  {}
