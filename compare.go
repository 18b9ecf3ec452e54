package shesmu

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// AppendKey appends a canonical byte encoding of v to b.  Two values have
// the same key iff they are semantically equal, so keys are used for set
// membership, grouping and join lookups.  Lists and maps are encoded
// independently of their insertion order.
func AppendKey(b []byte, v Value) []byte {
	switch v := v.(type) {
	case nil:
		return append(b, 'n')
	case bool:
		if v {
			return append(b, 'b', 1)
		}
		return append(b, 'b', 0)
	case int64:
		b = append(b, 'i')
		return binary.BigEndian.AppendUint64(b, uint64(v))
	case float64:
		if v == 0 {
			// Collapse negative zero.
			v = 0
		}
		b = append(b, 'f')
		return binary.BigEndian.AppendUint64(b, math.Float64bits(v))
	case string:
		return appendCounted(append(b, 's'), v)
	case time.Time:
		b = append(b, 'd')
		b = binary.BigEndian.AppendUint64(b, uint64(v.Unix()))
		return binary.BigEndian.AppendUint32(b, uint32(v.Nanosecond()))
	case Path:
		return appendCounted(append(b, 'p'), string(v))
	case JSON:
		doc, err := json.Marshal(v.V)
		if err != nil {
			panic(fmt.Sprintf("shesmu: unencodable json value: %s", err))
		}
		return appendCounted(append(b, 'j'), string(doc))
	case Optional:
		if !v.Valid {
			return append(b, 'q', 0)
		}
		return AppendKey(append(b, 'q', 1), v.V)
	case List:
		return appendUnordered(append(b, 'a'), v)
	case Tuple:
		b = binary.AppendUvarint(append(b, 't'), uint64(len(v)))
		for _, e := range v {
			b = AppendKey(b, e)
		}
		return b
	case Object:
		b = binary.AppendUvarint(append(b, 'o'), uint64(len(v)))
		for _, e := range v {
			b = AppendKey(b, e)
		}
		return b
	case *Map:
		pairs := make([]Value, 0, v.Len())
		for i, k := range v.keys {
			pairs = append(pairs, Tuple{k, v.vals[i]})
		}
		return appendUnordered(append(b, 'm'), pairs)
	}
	panic(fmt.Sprintf("shesmu: AppendKey: unknown value type %T", v))
}

func appendCounted(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendUnordered(b []byte, vals []Value) []byte {
	keys := make([][]byte, 0, len(vals))
	for _, v := range vals {
		keys = append(keys, AppendKey(nil, v))
	}
	slices.SortFunc(keys, bytes.Compare)
	b = binary.AppendUvarint(b, uint64(len(keys)))
	for _, k := range keys {
		b = append(b, k...)
	}
	return b
}

// Equal reports whether a and b are semantically equal.
func Equal(a, b Value) bool {
	return bytes.Equal(AppendKey(nil, a), AppendKey(nil, b))
}

// Compare orders two values of the same orderable type.  Tuples compare
// lexicographically and the empty optional sorts first.  Other values
// fall back to the order of their keys, which is stable but not
// meaningful.
func Compare(a, b Value) int {
	switch a := a.(type) {
	case bool:
		if bb, ok := b.(bool); ok {
			switch {
			case a == bb:
				return 0
			case !a:
				return -1
			}
			return 1
		}
	case int64:
		if b, ok := b.(int64); ok {
			return cmp.Compare(a, b)
		}
	case float64:
		if b, ok := b.(float64); ok {
			return cmp.Compare(a, b)
		}
	case string:
		if b, ok := b.(string); ok {
			return strings.Compare(a, b)
		}
	case Path:
		if b, ok := b.(Path); ok {
			return strings.Compare(string(a), string(b))
		}
	case time.Time:
		if b, ok := b.(time.Time); ok {
			return a.Compare(b)
		}
	case Optional:
		if b, ok := b.(Optional); ok {
			switch {
			case !a.Valid && !b.Valid:
				return 0
			case !a.Valid:
				return -1
			case !b.Valid:
				return 1
			}
			return Compare(a.V, b.V)
		}
	case Tuple:
		if b, ok := b.(Tuple); ok {
			for i := range min(len(a), len(b)) {
				if c := Compare(a[i], b[i]); c != 0 {
					return c
				}
			}
			return cmp.Compare(len(a), len(b))
		}
	}
	return bytes.Compare(AppendKey(nil, a), AppendKey(nil, b))
}
