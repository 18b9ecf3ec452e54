// Package agg implements the reducers behind collectors.  A Function sees
// the values an item expression produced, one per item, and reports the
// collected value once the items run out.
package agg

import (
	"errors"
	"fmt"

	"github.com/oicr-gsi/shesmu"
)

var ErrDuplicateDictKey = errors.New("duplicate dictionary key")

type Function interface {
	Consume(shesmu.Value)
	Result() (shesmu.Value, error)
}

// Pattern makes a fresh Function for each group or collection.
type Pattern func() Function

// NewPattern returns the pattern for the collector op.  Reduce and the
// defaulted collectors are assembled by the caller.
func NewPattern(op string) (Pattern, error) {
	switch op {
	case "Count":
		return func() Function { return new(Count) }, nil
	case "List":
		return func() Function { return NewList() }, nil
	case "Dict":
		return func() Function { return NewDict() }, nil
	case "First":
		return func() Function { return new(First) }, nil
	case "Univalued":
		return func() Function { return new(Univalued) }, nil
	case "Max":
		return func() Function { return &Optima{max: true} }, nil
	case "Min":
		return func() Function { return &Optima{} }, nil
	case "PartitionCount":
		return func() Function { return new(PartitionCount) }, nil
	case "Any", "All", "None":
		return func() Function { return &Matches{quantifier: op} }, nil
	}
	return nil, fmt.Errorf("unknown collector %q", op)
}
