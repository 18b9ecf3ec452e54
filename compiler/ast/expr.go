package ast

import "time"

type Expr interface {
	Node
	exprNode()
}

type (
	BadExpr struct {
		Kind string `json:"kind"`
		Loc  `json:"loc"`
	}
	// A BinaryExpr is any expression of the form "lhs op rhs" including
	// arithmetic (+, -, *, /, %), logical operators (&&, ||),
	// comparisons (==, !=, <, <=, >, >=) and list membership (In).
	BinaryExpr struct {
		Kind string `json:"kind"`
		Op   string `json:"op"`
		LHS  Expr   `json:"lhs"`
		RHS  Expr   `json:"rhs"`
		Loc  `json:"loc"`
	}
	BoolLiteral struct {
		Kind  string `json:"kind"`
		Value bool   `json:"value"`
		Loc   `json:"loc"`
	}
	CallExpr struct {
		Kind string `json:"kind"`
		Name *ID    `json:"name"`
		Args []Expr `json:"args"`
		Loc  `json:"loc"`
	}
	CondExpr struct {
		Kind string `json:"kind"`
		Cond Expr   `json:"cond"`
		Then Expr   `json:"then"`
		Else Expr   `json:"else"`
		Loc  `json:"loc"`
	}
	// ConvertExpr is "expr As type", converting to or from json.
	ConvertExpr struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Type Type   `json:"type"`
		Loc  `json:"loc"`
	}
	DateLiteral struct {
		Kind  string    `json:"kind"`
		Value time.Time `json:"value"`
		Loc   `json:"loc"`
	}
	DotExpr struct {
		Kind  string `json:"kind"`
		Expr  Expr   `json:"expr"`
		Field *ID    `json:"field"`
		Loc   `json:"loc"`
	}
	FloatLiteral struct {
		Kind  string  `json:"kind"`
		Value float64 `json:"value"`
		Loc   `json:"loc"`
	}
	// ForExpr iterates a source, applies list operations and reduces the
	// result with one collector.
	ForExpr struct {
		Kind      string    `json:"kind"`
		Pattern   Pattern   `json:"pattern"`
		Source    Source    `json:"source"`
		Ops       []ListOp  `json:"ops"`
		Collector Collector `json:"collector"`
		Loc       `json:"loc"`
	}
	IDExpr struct {
		Kind string `json:"kind"`
		ID   `json:"id"`
	}
	// IndexExpr extracts a tuple element by constant position.
	IndexExpr struct {
		Kind  string `json:"kind"`
		Expr  Expr   `json:"expr"`
		Index int    `json:"index"`
		Loc   `json:"loc"`
	}
	IntLiteral struct {
		Kind  string `json:"kind"`
		Value int64  `json:"value"`
		Loc   `json:"loc"`
	}
	ListExpr struct {
		Kind  string `json:"kind"`
		Elems []Expr `json:"elems"`
		Loc   `json:"loc"`
	}
	ObjectExpr struct {
		Kind   string       `json:"kind"`
		Fields []FieldValue `json:"fields"`
		Loc    `json:"loc"`
	}
	// OptionalExpr is a backtick optional literal; Expr is nil for the
	// empty optional.
	OptionalExpr struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	PathLiteral struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
		Loc   `json:"loc"`
	}
	RegexExpr struct {
		Kind    string `json:"kind"`
		Expr    Expr   `json:"expr"`
		Pattern string `json:"pattern"`
		Loc     `json:"loc"`
	}
	// StringExpr is a string literal with optional {expr} interpolations.
	StringExpr struct {
		Kind  string       `json:"kind"`
		Parts []StringPart `json:"parts"`
		Loc   `json:"loc"`
	}
	TupleExpr struct {
		Kind  string `json:"kind"`
		Elems []Expr `json:"elems"`
		Loc   `json:"loc"`
	}
	UnaryExpr struct {
		Kind    string `json:"kind"`
		Op      string `json:"op"`
		Operand Expr   `json:"operand"`
		Loc     `json:"loc"`
	}
)

type FieldValue struct {
	Name  *ID  `json:"name"`
	Value Expr `json:"value"`
}

// StringPart is either literal text or an interpolation.  An
// interpolation may carry a zero-padding width (integers) or a date
// format.
type StringPart struct {
	Text   string `json:"text,omitempty"`
	Expr   Expr   `json:"expr,omitempty"`
	Width  int    `json:"width,omitempty"`
	Format string `json:"format,omitempty"`
	Loc    `json:"loc"`
}

func (*BadExpr) exprNode()      {}
func (*BinaryExpr) exprNode()   {}
func (*BoolLiteral) exprNode()  {}
func (*CallExpr) exprNode()     {}
func (*CondExpr) exprNode()     {}
func (*ConvertExpr) exprNode()  {}
func (*DateLiteral) exprNode()  {}
func (*DotExpr) exprNode()      {}
func (*FloatLiteral) exprNode() {}
func (*ForExpr) exprNode()      {}
func (*IDExpr) exprNode()       {}
func (*IndexExpr) exprNode()    {}
func (*IntLiteral) exprNode()   {}
func (*ListExpr) exprNode()     {}
func (*ObjectExpr) exprNode()   {}
func (*OptionalExpr) exprNode() {}
func (*PathLiteral) exprNode()  {}
func (*RegexExpr) exprNode()    {}
func (*StringExpr) exprNode()   {}
func (*TupleExpr) exprNode()    {}
func (*UnaryExpr) exprNode()    {}

// Pattern destructures a value into local names.
type Pattern interface {
	Node
	patternNode()
}

type (
	NamePattern struct {
		Kind string `json:"kind"`
		Name *ID    `json:"name"`
		Loc  `json:"loc"`
	}
	DiscardPattern struct {
		Kind string `json:"kind"`
		Loc  `json:"loc"`
	}
	TuplePattern struct {
		Kind  string    `json:"kind"`
		Elems []Pattern `json:"elems"`
		Loc   `json:"loc"`
	}
	// ObjectPattern binds fields by name.  A field with no pattern binds
	// a local of the same name.
	ObjectPattern struct {
		Kind   string         `json:"kind"`
		Fields []FieldPattern `json:"fields"`
		Loc    `json:"loc"`
	}
)

type FieldPattern struct {
	Name    *ID     `json:"name"`
	Pattern Pattern `json:"pattern"`
}

func (*NamePattern) patternNode()    {}
func (*DiscardPattern) patternNode() {}
func (*TuplePattern) patternNode()   {}
func (*ObjectPattern) patternNode()  {}
