package ast

type Decl interface {
	Node
	declNode()
}

type BadDecl struct {
	Kind string `json:"kind"`
	Loc  `json:"loc"`
}

type InputDecl struct {
	Kind   string `json:"kind"`
	Format *ID    `json:"format"`
	Loc    `json:"loc"`
}

// PragmaDecl is Timeout, Frequency or RequiredServices.  Durations are
// in seconds.
type PragmaDecl struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Value    int64  `json:"value"`
	Services []*ID  `json:"services"`
	Loc      `json:"loc"`
}

type TypeAliasDecl struct {
	Kind string `json:"kind"`
	Name *ID    `json:"name"`
	Type Type   `json:"type"`
	Loc  `json:"loc"`
}

type ConstDecl struct {
	Kind string `json:"kind"`
	Name *ID    `json:"name"`
	Expr Expr   `json:"expr"`
	Loc  `json:"loc"`
}

type Param struct {
	Name *ID  `json:"name"`
	Type Type `json:"type"`
}

type FuncDecl struct {
	Kind   string  `json:"kind"`
	Name   *ID     `json:"name"`
	Params []Param `json:"params"`
	Result Type    `json:"result"`
	Body   Expr    `json:"body"`
	Loc    `json:"loc"`
}

// DefineDecl is a reusable olive fragment included with Call.
type DefineDecl struct {
	Kind    string   `json:"kind"`
	Name    *ID      `json:"name"`
	Params  []Param  `json:"params"`
	Clauses []Clause `json:"clauses"`
	Loc     `json:"loc"`
}

type OliveDecl struct {
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Tags        []*ID     `json:"tags"`
	Action      *ID       `json:"action"`
	Clauses     []Clause  `json:"clauses"`
	Args        []Binding `json:"args"`
	Loc         `json:"loc"`
}

func (*BadDecl) declNode()       {}
func (*InputDecl) declNode()     {}
func (*PragmaDecl) declNode()    {}
func (*TypeAliasDecl) declNode() {}
func (*ConstDecl) declNode()     {}
func (*FuncDecl) declNode()      {}
func (*DefineDecl) declNode()    {}
func (*OliveDecl) declNode()     {}

// Program is a parsed source unit.
type Program struct {
	Kind  string `json:"kind"`
	Decls []Decl `json:"decls"`
	Loc   `json:"loc"`
}
