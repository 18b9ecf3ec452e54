package dag

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpFamiliesDisjoint(t *testing.T) {
	clauses := []Op{
		&FilterOp{}, &LetOp{}, &FlattenOp{}, &GroupOp{},
		&JoinOp{}, &DumpOp{}, &CallOp{}, &ActionOp{},
	}
	lists := []ListOp{
		&WhereOp{}, &ListLetOp{}, &SortOp{}, &ReverseOp{},
		&ListFlattenOp{}, &DistinctOp{}, &SubsampleOp{},
	}
	names := make(map[string]bool)
	for _, op := range clauses {
		_, isList := any(op).(ListOp)
		assert.False(t, isList, "%T", op)
		name := reflect.TypeOf(op).Elem().Name()
		assert.False(t, names[name], name)
		names[name] = true
	}
	for _, op := range lists {
		_, isClause := any(op).(Op)
		assert.False(t, isClause, "%T", op)
		name := reflect.TypeOf(op).Elem().Name()
		assert.False(t, names[name], name)
		names[name] = true
	}
}
