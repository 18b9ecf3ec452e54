package expr

import (
	"github.com/oicr-gsi/shesmu"
)

// Binder destructures a value into slots of dst, which is either a local
// frame or a stream record under construction.
type Binder interface {
	Bind(dst []shesmu.Value, v shesmu.Value)
}

type BindSlot int

func (b BindSlot) Bind(dst []shesmu.Value, v shesmu.Value) {
	dst[b] = v
}

type BindDiscard struct{}

func (BindDiscard) Bind([]shesmu.Value, shesmu.Value) {}

type BindTuple []Binder

func (b BindTuple) Bind(dst []shesmu.Value, v shesmu.Value) {
	tuple := v.(shesmu.Tuple)
	for i, elem := range b {
		elem.Bind(dst, tuple[i])
	}
}

type BindObject struct {
	Indexes []int
	Elems   []Binder
}

func (b *BindObject) Bind(dst []shesmu.Value, v shesmu.Value) {
	obj := v.(shesmu.Object)
	for i, elem := range b.Elems {
		elem.Bind(dst, obj[b.Indexes[i]])
	}
}
