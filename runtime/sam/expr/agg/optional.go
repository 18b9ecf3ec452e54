package agg

import (
	"github.com/oicr-gsi/shesmu"
)

// First keeps the first value.
type First struct {
	val shesmu.Optional
}

func (f *First) Consume(val shesmu.Value) {
	if !f.val.Valid {
		f.val = shesmu.Optional{V: val, Valid: true}
	}
}

func (f *First) Result() (shesmu.Value, error) {
	return f.val, nil
}

// Univalued yields the value if every consumed value is equal to it and
// the empty optional otherwise.
type Univalued struct {
	val   shesmu.Optional
	mixed bool
}

func (u *Univalued) Consume(val shesmu.Value) {
	switch {
	case u.mixed:
	case !u.val.Valid:
		u.val = shesmu.Optional{V: val, Valid: true}
	case !shesmu.Equal(u.val.V, val):
		u.mixed = true
	}
}

func (u *Univalued) Result() (shesmu.Value, error) {
	if u.mixed {
		return shesmu.None, nil
	}
	return u.val, nil
}

// Optima keeps the greatest or least value.  Ties keep the first.
type Optima struct {
	max bool
	val shesmu.Optional
}

func (o *Optima) Consume(val shesmu.Value) {
	if !o.val.Valid {
		o.val = shesmu.Optional{V: val, Valid: true}
		return
	}
	c := shesmu.Compare(val, o.val.V)
	if o.max && c > 0 || !o.max && c < 0 {
		o.val.V = val
	}
}

func (o *Optima) Result() (shesmu.Value, error) {
	return o.val, nil
}
