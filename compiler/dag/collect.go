package dag

import "github.com/oicr-gsi/shesmu"

// Collectors reduce a sequence of items to one value.  In a For, item
// expressions see the locals bound by the final binder; in Group and
// LeftJoin they see the stream record.
type Collector interface {
	collectorNode()
	TypeOf() shesmu.Type
}

type (
	CountCollector struct {
		Kind string `json:"kind"`
	}
	ListCollector struct {
		Kind string      `json:"kind"`
		Expr Expr        `json:"expr"`
		Type shesmu.Type `json:"type"`
	}
	DictCollector struct {
		Kind  string      `json:"kind"`
		Key   Expr        `json:"key"`
		Value Expr        `json:"value"`
		Type  shesmu.Type `json:"type"`
	}
	// FirstCollector and OptimaCollector produce an optional unless a
	// Default is given.
	FirstCollector struct {
		Kind    string      `json:"kind"`
		Expr    Expr        `json:"expr"`
		Default Expr        `json:"default,omitempty"`
		Type    shesmu.Type `json:"type"`
	}
	UnivaluedCollector struct {
		Kind string      `json:"kind"`
		Expr Expr        `json:"expr"`
		Type shesmu.Type `json:"type"`
	}
	OptimaCollector struct {
		Kind    string      `json:"kind"`
		Max     bool        `json:"max"`
		Expr    Expr        `json:"expr"`
		Default Expr        `json:"default,omitempty"`
		Type    shesmu.Type `json:"type"`
	}
	// ReduceCollector binds the accumulator with Bind before evaluating
	// Expr for each item.
	ReduceCollector struct {
		Kind    string      `json:"kind"`
		Bind    Binder      `json:"bind"`
		Initial Expr        `json:"initial"`
		Expr    Expr        `json:"expr"`
		Type    shesmu.Type `json:"type"`
	}
	PartitionCountCollector struct {
		Kind string `json:"kind"`
		Expr Expr   `json:"expr"`
	}
	ConcatCollector struct {
		Kind      string `json:"kind"`
		Lexical   bool   `json:"lexical"`
		Expr      Expr   `json:"expr"`
		Delimiter Expr   `json:"delimiter"`
	}
	MatchesCollector struct {
		Kind       string `json:"kind"`
		Quantifier string `json:"quantifier"`
		Expr       Expr   `json:"expr"`
	}
)

// PartitionCountType is O{matched = integer, unmatched = integer}.
var PartitionCountType = shesmu.NewTypeObject([]shesmu.Field{
	shesmu.NewField("matched", shesmu.TypeInt),
	shesmu.NewField("unmatched", shesmu.TypeInt),
})

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

func (*CountCollector) TypeOf() shesmu.Type          { return shesmu.TypeInt }
func (c *ListCollector) TypeOf() shesmu.Type         { return c.Type }
func (c *DictCollector) TypeOf() shesmu.Type         { return c.Type }
func (c *FirstCollector) TypeOf() shesmu.Type        { return c.Type }
func (c *UnivaluedCollector) TypeOf() shesmu.Type    { return c.Type }
func (c *OptimaCollector) TypeOf() shesmu.Type       { return c.Type }
func (c *ReduceCollector) TypeOf() shesmu.Type       { return c.Type }
func (*PartitionCountCollector) TypeOf() shesmu.Type { return PartitionCountType }
func (*ConcatCollector) TypeOf() shesmu.Type         { return shesmu.TypeString }
func (*MatchesCollector) TypeOf() shesmu.Type        { return shesmu.TypeBool }
