package agg

import (
	"github.com/oicr-gsi/shesmu"
)

type Count int64

var _ Function = (*Count)(nil)

func (c *Count) Consume(shesmu.Value) {
	*c++
}

func (c Count) Result() (shesmu.Value, error) {
	return int64(c), nil
}

// PartitionCount counts true and false values.
type PartitionCount struct {
	matched   int64
	unmatched int64
}

func (p *PartitionCount) Consume(val shesmu.Value) {
	if val.(bool) {
		p.matched++
	} else {
		p.unmatched++
	}
}

func (p *PartitionCount) Result() (shesmu.Value, error) {
	return shesmu.Object{p.matched, p.unmatched}, nil
}

// Matches reports whether Any, All or None of the consumed booleans are
// true.
type Matches struct {
	quantifier string
	any        bool
	all        bool
	seen       bool
}

func (m *Matches) Consume(val shesmu.Value) {
	b := val.(bool)
	if !m.seen {
		m.all = true
		m.seen = true
	}
	m.any = m.any || b
	m.all = m.all && b
}

func (m *Matches) Result() (shesmu.Value, error) {
	switch m.quantifier {
	case "Any":
		return m.any, nil
	case "All":
		return !m.seen || m.all, nil
	}
	return !m.any, nil
}
