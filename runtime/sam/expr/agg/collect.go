package agg

import (
	"fmt"
	"slices"
	"strings"

	"github.com/oicr-gsi/shesmu"
)

// List collects the distinct values in order of first occurrence.
type List struct {
	b *shesmu.ListBuilder
}

var _ Function = (*List)(nil)

func NewList() *List {
	return &List{shesmu.NewListBuilder()}
}

func (l *List) Consume(val shesmu.Value) {
	l.b.Add(val)
}

func (l *List) Result() (shesmu.Value, error) {
	return l.b.List(), nil
}

// Dict consumes {key, value} tuples.  A key seen twice is an error even if
// the values agree.
type Dict struct {
	m   *shesmu.Map
	dup shesmu.Value
}

func NewDict() *Dict {
	return &Dict{m: shesmu.NewMap()}
}

func (d *Dict) Consume(val shesmu.Value) {
	pair := val.(shesmu.Tuple)
	if d.m.Put(pair[0], pair[1]) && d.dup == nil {
		d.dup = pair[0]
	}
}

func (d *Dict) Result() (shesmu.Value, error) {
	if d.dup != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDictKey, shesmu.Format(d.dup))
	}
	return d.m, nil
}

// Concat joins the string forms of the values with a delimiter, sorting
// them first when Lexical is set.
type Concat struct {
	Lexical   bool
	Delimiter string
	parts     []string
}

func (c *Concat) Consume(val shesmu.Value) {
	c.parts = append(c.parts, shesmu.Format(val))
}

func (c *Concat) Result() (shesmu.Value, error) {
	parts := c.parts
	if c.Lexical {
		parts = slices.Clone(parts)
		slices.Sort(parts)
	}
	return strings.Join(parts, c.Delimiter), nil
}

// Reduce holds the accumulator of a fold.  The caller computes each new
// accumulator from the previous one and consumes it.
type Reduce struct {
	Acc shesmu.Value
}

func (r *Reduce) Consume(val shesmu.Value) {
	r.Acc = val
}

func (r *Reduce) Result() (shesmu.Value, error) {
	return r.Acc, nil
}
