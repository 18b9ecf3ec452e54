package shesmu

import (
	"time"
)

// Value is a runtime value.  The concrete Go type is determined by the
// Imyhat type of the expression that produced it:
//
//	boolean   bool
//	integer   int64
//	float     float64
//	string    string
//	date      time.Time
//	path      Path
//	json      JSON
//	[T]       List
//	T?        Optional
//	{T, ...}  Tuple
//	O{...}    Object (fields in canonical order)
//	Dict[K,V] *Map
type Value = any

type Path string

// JSON wraps a decoded JSON document (nil, bool, float64, string, []any or
// map[string]any).
type JSON struct {
	V any
}

// List is a set of distinct values in order of first insertion.
type List []Value

// Tuple is a positional record.
type Tuple []Value

// Object holds field values positionally in the canonical field order of
// its TypeObject.
type Object []Value

type Optional struct {
	V     Value
	Valid bool
}

// Some returns a present optional.  Optionals do not nest so Some of an
// optional is that optional.
func Some(v Value) Optional {
	if o, ok := v.(Optional); ok {
		return o
	}
	return Optional{V: v, Valid: true}
}

var None = Optional{}

// ListBuilder accumulates distinct values preserving first-insertion
// order.
type ListBuilder struct {
	seen map[string]struct{}
	vals List
	key  []byte
}

func NewListBuilder() *ListBuilder {
	return &ListBuilder{seen: make(map[string]struct{})}
}

// Add appends v unless an equal value was already added and reports
// whether v was new.
func (l *ListBuilder) Add(v Value) bool {
	l.key = AppendKey(l.key[:0], v)
	if _, ok := l.seen[string(l.key)]; ok {
		return false
	}
	l.seen[string(l.key)] = struct{}{}
	l.vals = append(l.vals, v)
	return true
}

func (l *ListBuilder) Len() int {
	return len(l.vals)
}

func (l *ListBuilder) List() List {
	if l.vals == nil {
		return List{}
	}
	return l.vals
}

// NewList builds a list from vals dropping duplicates.
func NewList(vals ...Value) List {
	b := NewListBuilder()
	for _, v := range vals {
		b.Add(v)
	}
	return b.List()
}

// Map is an insertion-ordered dictionary keyed by semantic equality.
type Map struct {
	keys  []Value
	vals  []Value
	index map[string]int
}

func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Put inserts or replaces the value for key and reports whether key was
// already present.
func (m *Map) Put(key, val Value) bool {
	k := string(AppendKey(nil, key))
	if i, ok := m.index[k]; ok {
		m.vals[i] = val
		return true
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
	return false
}

func (m *Map) Get(key Value) (Value, bool) {
	if i, ok := m.index[string(AppendKey(nil, key))]; ok {
		return m.vals[i], true
	}
	return nil, false
}

func (m *Map) Len() int {
	return len(m.keys)
}

func (m *Map) Keys() []Value {
	return m.keys
}

func (m *Map) Values() []Value {
	return m.vals
}

// Epoch is the zero date used for default and missing date values.
var Epoch = time.Unix(0, 0).UTC()

// Zero returns the value used in place of a result that could not be
// computed.
func Zero(t Type) Value {
	switch t := t.(type) {
	case *TypeOfBool:
		return false
	case *TypeOfInt:
		return int64(0)
	case *TypeOfFloat:
		return float64(0)
	case *TypeOfString:
		return ""
	case *TypeOfDate:
		return Epoch
	case *TypeOfPath:
		return Path("")
	case *TypeOfJSON:
		return JSON{}
	case *TypeList, *TypeOfEmpty:
		return List{}
	case *TypeOptional, *TypeOfNothing:
		return None
	case *TypeTuple:
		out := make(Tuple, 0, len(t.Elems))
		for _, e := range t.Elems {
			out = append(out, Zero(e))
		}
		return out
	case *TypeObject:
		out := make(Object, 0, len(t.Fields))
		for _, f := range t.Fields {
			out = append(out, Zero(f.Type))
		}
		return out
	case *TypeMap:
		return NewMap()
	}
	return nil
}
