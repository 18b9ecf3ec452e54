package shesmu

// Unify returns the least common supertype of a and b or bad if they
// have none.  The empty list literal unifies with any list and the empty
// optional with any optional.
func Unify(a, b Type) Type {
	if IsBad(a) || IsBad(b) {
		return TypeBad
	}
	switch a.Kind() {
	case EmptyKind:
		switch b.Kind() {
		case EmptyKind, ListKind:
			return b
		}
		return TypeBad
	case NothingKind:
		switch b.Kind() {
		case NothingKind, OptionalKind:
			return b
		}
		return TypeBad
	}
	switch b.Kind() {
	case EmptyKind, NothingKind:
		return Unify(b, a)
	}
	if a.Kind() != b.Kind() {
		return TypeBad
	}
	switch a := a.(type) {
	case *TypeList:
		return NewTypeList(Unify(a.Inner, b.(*TypeList).Inner))
	case *TypeOptional:
		return NewTypeOptional(Unify(a.Inner, b.(*TypeOptional).Inner))
	case *TypeMap:
		b := b.(*TypeMap)
		return NewTypeMap(Unify(a.Key, b.Key), Unify(a.Value, b.Value))
	case *TypeTuple:
		b := b.(*TypeTuple)
		if len(a.Elems) != len(b.Elems) {
			return TypeBad
		}
		elems := make([]Type, 0, len(a.Elems))
		for i := range a.Elems {
			elems = append(elems, Unify(a.Elems[i], b.Elems[i]))
		}
		return NewTypeTuple(elems...)
	case *TypeObject:
		b := b.(*TypeObject)
		if len(a.Fields) != len(b.Fields) {
			return TypeBad
		}
		fields := make([]Field, 0, len(a.Fields))
		for i, f := range a.Fields {
			if f.Name != b.Fields[i].Name {
				return TypeBad
			}
			fields = append(fields, Field{f.Name, Unify(f.Type, b.Fields[i].Type)})
		}
		return NewTypeObject(fields)
	}
	// Same primitive kind.
	return a
}

// IsSame reports whether a and b unify.  Bad is never the same as
// anything, including itself.
func IsSame(a, b Type) bool {
	return !IsBad(Unify(a, b))
}

// Identical reports whether a and b are structurally equal without any
// subsumption of the empty list or empty optional.
func Identical(a, b Type) bool {
	if IsBad(a) || IsBad(b) {
		return IsBad(a) && IsBad(b)
	}
	return a.Descriptor() == b.Descriptor()
}
