package ast

// Source is the left-hand side of a For expression.
type Source interface {
	Node
	sourceNode()
}

type (
	// ContainerSource iterates the items of a list or optional.
	ContainerSource struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	// RangeSource iterates the half-open integer interval [From, To).
	RangeSource struct {
		Kind string `json:"kind"`
		From Expr   `json:"from"`
		To   Expr   `json:"to"`
		Loc  `json:"loc"`
	}
	// InputSource iterates the records of another input format.
	InputSource struct {
		Kind   string `json:"kind"`
		Format *ID    `json:"format"`
		Loc    `json:"loc"`
	}
)

func (*ContainerSource) sourceNode() {}
func (*RangeSource) sourceNode()     {}
func (*InputSource) sourceNode()     {}

// ListOp is an intermediate operation of a For expression.
type ListOp interface {
	Node
	listOpNode()
}

type (
	WhereOp struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	LetOp struct {
		Kind    string  `json:"kind"`
		Pattern Pattern `json:"pattern"`
		Expr    Expr    `json:"expr"`
		Loc     `json:"loc"`
	}
	SortOp struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	ReverseOp struct {
		Kind string `json:"kind"`
		Loc  `json:"loc"`
	}
	FlattenOp struct {
		Kind    string  `json:"kind"`
		Pattern Pattern `json:"pattern"`
		Source  Source  `json:"source"`
		Loc     `json:"loc"`
	}
	DistinctOp struct {
		Kind string `json:"kind"`
		Loc  `json:"loc"`
	}
	// SubsampleOp holds one or more samplers applied in sequence.  A bare
	// "Fixed" or "Squish" is a SubsampleOp with one sampler.
	SubsampleOp struct {
		Kind     string    `json:"kind"`
		Samplers []Sampler `json:"samplers"`
		Loc      `json:"loc"`
	}
)

func (*WhereOp) listOpNode()     {}
func (*LetOp) listOpNode()       {}
func (*SortOp) listOpNode()      {}
func (*ReverseOp) listOpNode()   {}
func (*FlattenOp) listOpNode()   {}
func (*DistinctOp) listOpNode()  {}
func (*SubsampleOp) listOpNode() {}

type Sampler interface {
	Node
	samplerNode()
}

type (
	// FixedSampler keeps up to Count items, stopping early once While is
	// false.
	FixedSampler struct {
		Kind  string `json:"kind"`
		Count Expr   `json:"count"`
		While Expr   `json:"while"`
		Loc   `json:"loc"`
	}
	// SquishSampler keeps Count items evenly spaced over everything left.
	SquishSampler struct {
		Kind  string `json:"kind"`
		Count Expr   `json:"count"`
		Loc   `json:"loc"`
	}
)

func (*FixedSampler) samplerNode()  {}
func (*SquishSampler) samplerNode() {}

// Collector is the terminal operation of a For expression or the reducer
// of a Group or LeftJoin output variable.
type Collector interface {
	Node
	collectorNode()
}

type (
	CountCollector struct {
		Kind string `json:"kind"`
		Loc  `json:"loc"`
	}
	ListCollector struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	DictCollector struct {
		Kind  string `json:"kind"`
		Key   Expr   `json:"key"`
		Value Expr   `json:"value"`
		Loc   `json:"loc"`
	}
	FirstCollector struct {
		Kind    string `json:"kind"`
		Expr    Expr   `json:"expr"`
		Default Expr   `json:"default"`
		Loc     `json:"loc"`
	}
	UnivaluedCollector struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	// OptimaCollector is Max or Min.
	OptimaCollector struct {
		Kind    string `json:"kind"`
		Max     bool   `json:"max"`
		Expr    Expr   `json:"expr"`
		Default Expr   `json:"default"`
		Loc     `json:"loc"`
	}
	ReduceCollector struct {
		Kind        string  `json:"kind"`
		Accumulator Pattern `json:"accumulator"`
		Initial     Expr    `json:"initial"`
		Expr        Expr    `json:"expr"`
		Loc         `json:"loc"`
	}
	PartitionCountCollector struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	// ConcatCollector is Concatenate or, when Lexical, LexicalConcat
	// which sorts the items before joining them.
	ConcatCollector struct {
		Kind      string `json:"kind"`
		Lexical   bool   `json:"lexical"`
		Expr      Expr   `json:"expr"`
		Delimiter Expr   `json:"delimiter"`
		Loc       `json:"loc"`
	}
	// MatchesCollector is "Any", "All" or "None".
	MatchesCollector struct {
		Kind       string `json:"kind"`
		Quantifier string `json:"quantifier"`
		Expr       Expr   `json:"expr"`
		Loc        `json:"loc"`
	}
)

func (*CountCollector) collectorNode()          {}
func (*ListCollector) collectorNode()           {}
func (*DictCollector) collectorNode()           {}
func (*FirstCollector) collectorNode()          {}
func (*UnivaluedCollector) collectorNode()      {}
func (*OptimaCollector) collectorNode()         {}
func (*ReduceCollector) collectorNode()         {}
func (*PartitionCountCollector) collectorNode() {}
func (*ConcatCollector) collectorNode()         {}
func (*MatchesCollector) collectorNode()        {}
