package ast

// Clause is a stream operator of an olive or Define.
type Clause interface {
	Node
	clauseNode()
}

type (
	BadClause struct {
		Kind string `json:"kind"`
		Loc  `json:"loc"`
	}
	WhereClause struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	// LetClause replaces the stream with the listed bindings.  A binding
	// without an expression passes a variable through unchanged.
	LetClause struct {
		Kind     string    `json:"kind"`
		Bindings []Binding `json:"bindings"`
		Loc      `json:"loc"`
	}
	GroupClause struct {
		Kind string    `json:"kind"`
		By   []Binding `json:"by"`
		Into []Output  `json:"into"`
		Loc  `json:"loc"`
	}
	LeftJoinClause struct {
		Kind   string   `json:"kind"`
		Outer  Expr     `json:"outer"`
		Prefix *ID      `json:"prefix"`
		Format *ID      `json:"format"`
		Inner  Expr     `json:"inner"`
		Where  Expr     `json:"where"`
		Into   []Output `json:"into"`
		Loc    `json:"loc"`
	}
	FlattenClause struct {
		Kind    string  `json:"kind"`
		Pattern Pattern `json:"pattern"`
		Expr    Expr    `json:"expr"`
		Loc     `json:"loc"`
	}
	CallClause struct {
		Kind string `json:"kind"`
		Name *ID    `json:"name"`
		Args []Expr `json:"args"`
		Loc  `json:"loc"`
	}
	// DumpClause writes values to a named dumper; All dumps every stream
	// variable.
	DumpClause struct {
		Kind   string `json:"kind"`
		All    bool   `json:"all"`
		Exprs  []Expr `json:"exprs"`
		Dumper *ID    `json:"dumper"`
		Loc    `json:"loc"`
	}
)

type Binding struct {
	Name *ID  `json:"name"`
	Expr Expr `json:"expr"`
}

// Output is a named collector of a Group or LeftJoin, optionally
// restricted to the rows matching Where.
type Output struct {
	Name      *ID       `json:"name"`
	Where     Expr      `json:"where"`
	Collector Collector `json:"collector"`
}

func (*BadClause) clauseNode()      {}
func (*WhereClause) clauseNode()    {}
func (*LetClause) clauseNode()      {}
func (*GroupClause) clauseNode()    {}
func (*LeftJoinClause) clauseNode() {}
func (*FlattenClause) clauseNode()  {}
func (*CallClause) clauseNode()     {}
func (*DumpClause) clauseNode()     {}
