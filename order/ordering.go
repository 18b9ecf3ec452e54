package order

import (
	"encoding/json"
)

// Ordering describes the order in which a For source produces items.
type Ordering int

const (
	Random Ordering = iota
	SortedAscending
	SortedDescending
	InputOrder
)

func (o Ordering) String() string {
	switch o {
	case SortedAscending:
		return "asc"
	case SortedDescending:
		return "desc"
	case InputOrder:
		return "input"
	}
	return "random"
}

// Reverse flips a sorted ordering.  Reversing a random ordering is
// meaningless and is reported by ok being false.
func (o Ordering) Reverse() (Ordering, bool) {
	switch o {
	case SortedAscending:
		return SortedDescending, true
	case SortedDescending:
		return SortedAscending, true
	case InputOrder:
		return InputOrder, true
	}
	return Random, false
}

func (o Ordering) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Consumption tracks how much of a sequence a chain of samplers has used.
// A fixed-size sampler leaves items for a following sampler while a
// squishing sampler uses them all.
type Consumption int

const (
	Limited Consumption = iota
	Greedy
)

func (c Consumption) String() string {
	if c == Greedy {
		return "greedy"
	}
	return "limited"
}
