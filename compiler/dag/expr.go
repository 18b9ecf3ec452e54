package dag

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
)

// Expr is a typed, resolved expression.  Every variable reference has been
// bound to a slot in one of the frames the runtime maintains.
type Expr interface {
	exprNode()
	TypeOf() shesmu.Type
}

// Exprs

type (
	// A BadExpr node is a placeholder for an expression containing semantic
	// errors.
	BadExpr struct {
		Kind string `json:"kind"`
	}
	BinaryExpr struct {
		Kind string      `json:"kind"`
		Op   string      `json:"op"`
		LHS  Expr        `json:"lhs"`
		RHS  Expr        `json:"rhs"`
		Type shesmu.Type `json:"type"`
	}
	// CallExpr calls a registered function.
	CallExpr struct {
		Kind string               `json:"kind"`
		Func *definitions.Function `json:"-"`
		Name string               `json:"name"`
		Args []Expr               `json:"args"`
	}
	CondExpr struct {
		Kind string      `json:"kind"`
		Cond Expr        `json:"cond"`
		Then Expr        `json:"then"`
		Else Expr        `json:"else"`
		Type shesmu.Type `json:"type"`
	}
	// ConstRef refers to a program constant evaluated once before any
	// olive runs.
	ConstRef struct {
		Kind string      `json:"kind"`
		Name string      `json:"name"`
		Slot int         `json:"slot"`
		Type shesmu.Type `json:"type"`
	}
	ConvertExpr struct {
		Kind string      `json:"kind"`
		Expr Expr        `json:"expr"`
		Type shesmu.Type `json:"type"`
	}
	// DotExpr selects a field of an object by its canonical position.
	DotExpr struct {
		Kind  string      `json:"kind"`
		Expr  Expr        `json:"expr"`
		Field string      `json:"field"`
		Index int         `json:"index"`
		Type  shesmu.Type `json:"type"`
	}
	ForExpr struct {
		Kind      string    `json:"kind"`
		Source    Source    `json:"source"`
		Bind      Binder    `json:"bind"`
		Ops       []ListOp  `json:"ops"`
		Collector Collector `json:"collector"`
	}
	// FuncRef calls a function declared in the olive file.
	FuncRef struct {
		Kind string      `json:"kind"`
		Name string      `json:"name"`
		Slot int         `json:"slot"`
		Args []Expr      `json:"args"`
		Type shesmu.Type `json:"type"`
	}
	IndexExpr struct {
		Kind  string      `json:"kind"`
		Expr  Expr        `json:"expr"`
		Index int         `json:"index"`
		Type  shesmu.Type `json:"type"`
	}
	ListExpr struct {
		Kind  string      `json:"kind"`
		Elems []Expr      `json:"elems"`
		Type  shesmu.Type `json:"type"`
	}
	Literal struct {
		Kind  string       `json:"kind"`
		Value shesmu.Value `json:"value"`
		Type  shesmu.Type  `json:"type"`
	}
	// LocalRef refers to a variable bound by a pattern inside an
	// expression: a For variable, a Reduce accumulator or a function
	// parameter.
	LocalRef struct {
		Kind string      `json:"kind"`
		Name string      `json:"name"`
		Slot int         `json:"slot"`
		Type shesmu.Type `json:"type"`
	}
	// ObjectExpr holds field values in canonical field order.
	ObjectExpr struct {
		Kind   string      `json:"kind"`
		Fields []Expr      `json:"fields"`
		Type   shesmu.Type `json:"type"`
	}
	// OptionalExpr wraps Expr in a present optional or, when Expr is nil,
	// is the empty optional.
	OptionalExpr struct {
		Kind string      `json:"kind"`
		Expr Expr        `json:"expr"`
		Type shesmu.Type `json:"type"`
	}
	// ParamRef refers to an argument of a Define.  Arguments are evaluated
	// once when the calling olive starts.
	ParamRef struct {
		Kind string      `json:"kind"`
		Name string      `json:"name"`
		Slot int         `json:"slot"`
		Type shesmu.Type `json:"type"`
	}
	RegexExpr struct {
		Kind    string `json:"kind"`
		Expr    Expr   `json:"expr"`
		Pattern string `json:"pattern"`
	}
	// SignatureRef refers to a signature of the olive's input record.
	SignatureRef struct {
		Kind string      `json:"kind"`
		Name string      `json:"name"`
		Slot int         `json:"slot"`
		Type shesmu.Type `json:"type"`
	}
	// StreamRef refers to a variable of the current stream record.
	StreamRef struct {
		Kind string      `json:"kind"`
		Name string      `json:"name"`
		Slot int         `json:"slot"`
		Type shesmu.Type `json:"type"`
	}
	StringExpr struct {
		Kind  string       `json:"kind"`
		Parts []StringPart `json:"parts"`
	}
	StringPart struct {
		Text   string `json:"text,omitempty"`
		Expr   Expr   `json:"expr,omitempty"`
		Width  int    `json:"width,omitempty"`
		Format string `json:"format,omitempty"`
	}
	TupleExpr struct {
		Kind  string      `json:"kind"`
		Elems []Expr      `json:"elems"`
		Type  shesmu.Type `json:"type"`
	}
	UnaryExpr struct {
		Kind    string      `json:"kind"`
		Op      string      `json:"op"`
		Operand Expr        `json:"operand"`
		Type    shesmu.Type `json:"type"`
	}
)

func (*BadExpr) exprNode()      {}
func (*BinaryExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*CondExpr) exprNode()     {}
func (*ConstRef) exprNode()     {}
func (*ConvertExpr) exprNode()  {}
func (*DotExpr) exprNode()      {}
func (*ForExpr) exprNode()      {}
func (*FuncRef) exprNode()      {}
func (*IndexExpr) exprNode()    {}
func (*ListExpr) exprNode()     {}
func (*Literal) exprNode()      {}
func (*LocalRef) exprNode()     {}
func (*ObjectExpr) exprNode()   {}
func (*OptionalExpr) exprNode() {}
func (*ParamRef) exprNode()     {}
func (*RegexExpr) exprNode()    {}
func (*SignatureRef) exprNode() {}
func (*StreamRef) exprNode()    {}
func (*StringExpr) exprNode()   {}
func (*TupleExpr) exprNode()    {}
func (*UnaryExpr) exprNode()    {}

func (*BadExpr) TypeOf() shesmu.Type        { return shesmu.TypeBad }
func (e *BinaryExpr) TypeOf() shesmu.Type   { return e.Type }
func (e *CallExpr) TypeOf() shesmu.Type     { return e.Func.Result }
func (e *CondExpr) TypeOf() shesmu.Type     { return e.Type }
func (e *ConstRef) TypeOf() shesmu.Type     { return e.Type }
func (e *ConvertExpr) TypeOf() shesmu.Type  { return e.Type }
func (e *DotExpr) TypeOf() shesmu.Type      { return e.Type }
func (e *ForExpr) TypeOf() shesmu.Type      { return e.Collector.TypeOf() }
func (e *FuncRef) TypeOf() shesmu.Type      { return e.Type }
func (e *IndexExpr) TypeOf() shesmu.Type    { return e.Type }
func (e *ListExpr) TypeOf() shesmu.Type     { return e.Type }
func (e *Literal) TypeOf() shesmu.Type      { return e.Type }
func (e *LocalRef) TypeOf() shesmu.Type     { return e.Type }
func (e *ObjectExpr) TypeOf() shesmu.Type   { return e.Type }
func (e *OptionalExpr) TypeOf() shesmu.Type { return e.Type }
func (e *ParamRef) TypeOf() shesmu.Type     { return e.Type }
func (*RegexExpr) TypeOf() shesmu.Type      { return shesmu.TypeBool }
func (e *SignatureRef) TypeOf() shesmu.Type { return e.Type }
func (e *StreamRef) TypeOf() shesmu.Type    { return e.Type }
func (*StringExpr) TypeOf() shesmu.Type     { return shesmu.TypeString }
func (e *TupleExpr) TypeOf() shesmu.Type    { return e.Type }
func (e *UnaryExpr) TypeOf() shesmu.Type    { return e.Type }

// Binders destructure a value into local slots.

type (
	Binder interface {
		binderNode()
	}
	BindSlot struct {
		Kind string `json:"kind"`
		Slot int    `json:"slot"`
	}
	BindDiscard struct {
		Kind string `json:"kind"`
	}
	BindTuple struct {
		Kind  string   `json:"kind"`
		Elems []Binder `json:"elems"`
	}
	// BindObject binds selected fields by canonical position.
	BindObject struct {
		Kind    string   `json:"kind"`
		Indexes []int    `json:"indexes"`
		Elems   []Binder `json:"elems"`
	}
)

func (*BindSlot) binderNode()    {}
func (*BindDiscard) binderNode() {}
func (*BindTuple) binderNode()   {}
func (*BindObject) binderNode()  {}

// Sources

type (
	Source interface {
		sourceNode()
	}
	ContainerSource struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		// Optional sources yield zero or one item.
		Optional bool `json:"optional"`
	}
	RangeSource struct {
		Kind string `json:"kind"`
		From Expr   `json:"from"`
		To   Expr   `json:"to"`
	}
	// InputSource iterates the records of another input format as
	// objects.
	InputSource struct {
		Kind   string      `json:"kind"`
		Format string      `json:"format"`
		Type   shesmu.Type `json:"type"`
	}
)

func (*ContainerSource) sourceNode() {}
func (*RangeSource) sourceNode()     {}
func (*InputSource) sourceNode()     {}

// List operations rewrite the sequence of items a For feeds its collector.

type (
	ListOp interface {
		listOpNode()
	}
	WhereOp struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
	}
	ListLetOp struct {
		Kind string `json:"kind"`
		Bind Binder `json:"bind"`
		Expr Expr   `json:"expr"`
	}
	SortOp struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
	}
	ReverseOp struct {
		Kind string `json:"kind"`
	}
	ListFlattenOp struct {
		Kind   string `json:"kind"`
		Bind   Binder `json:"bind"`
		Source Source `json:"source"`
	}
	DistinctOp struct {
		Kind string `json:"kind"`
	}
	SubsampleOp struct {
		Kind     string    `json:"kind"`
		Samplers []Sampler `json:"samplers"`
	}
	Sampler struct {
		Kind  string `json:"kind"`
		Count Expr   `json:"count"`
		While Expr   `json:"while,omitempty"`
	}
)

func (*WhereOp) listOpNode()       {}
func (*ListLetOp) listOpNode()     {}
func (*SortOp) listOpNode()        {}
func (*ReverseOp) listOpNode()     {}
func (*ListFlattenOp) listOpNode() {}
func (*DistinctOp) listOpNode()    {}
func (*SubsampleOp) listOpNode()   {}
