package dag

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/order"
)

// Program is a checked olive file ready to be lowered onto a target.
type Program struct {
	Format           string      `json:"format"`
	Timeout          int64       `json:"timeout,omitempty"`
	Frequency        int64       `json:"frequency,omitempty"`
	RequiredServices []string    `json:"required_services,omitempty"`
	InputRefs        []string    `json:"input_refs,omitempty"`
	Consts           []*ConstDef `json:"consts"`
	Funcs            []*FuncDef  `json:"funcs"`
	Olives           []*Olive    `json:"olives"`
}

// ConstDef is evaluated once per run, in order, into its ConstRef slot.
type ConstDef struct {
	Name   string `json:"name"`
	Expr   Expr   `json:"expr"`
	Locals int    `json:"locals"`
}

// FuncDef parameters occupy the first local slots of its frame.
type FuncDef struct {
	Name   string        `json:"name"`
	Params []shesmu.Type `json:"-"`
	Result shesmu.Type   `json:"-"`
	Body   Expr          `json:"body"`
	Locals int           `json:"locals"`
}

// Olive is one checked olive.  InputRefs lists the formats it reads other
// than its own, through LeftJoin or For In Input.
type Olive struct {
	Name        string   `json:"name"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Format      string   `json:"format"`
	// Signatures are computed from the input record while the stream
	// is pure.
	Signatures []*SignatureDef `json:"signatures,omitempty"`
	Signables  []string        `json:"signables,omitempty"`
	Body       Seq             `json:"body"`
	Action     *ActionOp       `json:"action"`
	Locals     int             `json:"locals"`
	InputRefs  []string        `json:"input_refs,omitempty"`
}

// SignatureDef binds a registered signature to the signable variables
// Fields (input record slots, sorted by name) of one input format.
type SignatureDef struct {
	Name   string                 `json:"name"`
	Def    *definitions.Signature `json:"-"`
	Fields []int                  `json:"fields"`
	Names  []string               `json:"names"`
	Types  []shesmu.Type          `json:"-"`
}

type Op interface {
	opNode()
}

type Seq []Op

func (seq *Seq) Append(op Op) {
	*seq = append(*seq, op)
}

// Assignment computes one variable of a new stream record layout.
type Assignment struct {
	Name string `json:"name"`
	Expr Expr   `json:"expr"`
}

// Output is one Group or LeftJoin collector with an optional filter on
// the rows it consumes.
type Output struct {
	Name      string    `json:"name"`
	Where     Expr      `json:"where,omitempty"`
	Collector Collector `json:"collector"`
	// Unwrap replaces an optional result with its value and drops the
	// record when it is empty.
	Unwrap bool `json:"unwrap,omitempty"`
}

// Ops all have suffix "Op".

type (
	FilterOp struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
	}
	// LetOp replaces every record with the record built from Assigns.
	LetOp struct {
		Kind    string       `json:"kind"`
		Assigns []Assignment `json:"assigns"`
	}
	// FlattenOp emits one record per element of Expr, extending the
	// record to Width slots with the slots Bind fills.
	FlattenOp struct {
		Kind     string `json:"kind"`
		Expr     Expr   `json:"expr"`
		Optional bool   `json:"optional"`
		Bind     Binder `json:"bind"`
		Width    int    `json:"width"`
	}
	// GroupOp emits one record per distinct key: the keys then the
	// outputs.  A group is dropped if any output is undefined for it.
	GroupOp struct {
		Kind    string       `json:"kind"`
		Keys    []Assignment `json:"keys"`
		Outputs []Output     `json:"outputs"`
	}
	// JoinOp matches each record against the records of Format whose
	// Inner key equals the Outer key.  Collector rows are the outer
	// record followed by the inner record and its signatures.  The
	// output record keeps Keep from the outer record then adds the
	// outputs.
	JoinOp struct {
		Kind       string          `json:"kind"`
		Format     string          `json:"format"`
		Outer      Expr            `json:"outer"`
		Inner      Expr            `json:"inner"`
		InnerWidth int             `json:"inner_width"`
		Signatures []*SignatureDef `json:"signatures,omitempty"`
		Where      Expr            `json:"where,omitempty"`
		Outputs    []Output        `json:"outputs"`
		Keep       []int           `json:"keep"`
	}
	DumpOp struct {
		Kind   string        `json:"kind"`
		Dumper string        `json:"dumper"`
		Names  []string      `json:"names"`
		Exprs  []Expr        `json:"exprs"`
		Types  []shesmu.Type `json:"-"`
	}
	// CallOp runs the clauses of a Define.  Args are evaluated before the
	// olive starts and bound to the ParamRef slots of Body.
	CallOp struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
		Args []Expr `json:"args"`
		Body Seq    `json:"body"`
	}
	// ActionOp builds one action per record.
	ActionOp struct {
		Kind   string              `json:"kind"`
		Name   string              `json:"name"`
		Def    *definitions.Action `json:"-"`
		Params []Assignment        `json:"params"`
	}
)

func (*FilterOp) opNode()  {}
func (*LetOp) opNode()     {}
func (*FlattenOp) opNode() {}
func (*GroupOp) opNode()   {}
func (*JoinOp) opNode()    {}
func (*DumpOp) opNode()    {}
func (*CallOp) opNode()    {}
func (*ActionOp) opNode()  {}

// Stream reports the state of the stream after seq given the state
// before it.
func (seq Seq) Stream(in order.Stream) order.Stream {
	s := in
	for _, op := range seq {
		switch op := op.(type) {
		case *GroupOp, *JoinOp:
			s = s.Then(order.Transformed)
		case *CallOp:
			s = op.Body.Stream(s)
		}
	}
	return s
}
