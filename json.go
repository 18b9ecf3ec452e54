package shesmu

import (
	"maps"
	"math"
	"slices"
	"time"
)

// ToJSON converts v of type t to a document encodable by encoding/json.
// Dictionaries with string keys become JSON objects; other dictionaries
// become arrays of [key, value] pairs.
func ToJSON(t Type, v Value) any {
	switch t := t.(type) {
	case *TypeOfDate:
		return v.(time.Time).UTC().Format(time.RFC3339Nano)
	case *TypeOfPath:
		return string(v.(Path))
	case *TypeOfJSON:
		return v.(JSON).V
	case *TypeOfFloat:
		f := v.(float64)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		return f
	case *TypeOfEmpty:
		return []any{}
	case *TypeOfNothing:
		return nil
	case *TypeList:
		list := v.(List)
		out := make([]any, 0, len(list))
		for _, e := range list {
			out = append(out, ToJSON(t.Inner, e))
		}
		return out
	case *TypeOptional:
		o := v.(Optional)
		if !o.Valid {
			return nil
		}
		return ToJSON(t.Inner, o.V)
	case *TypeTuple:
		tuple := v.(Tuple)
		out := make([]any, 0, len(tuple))
		for i, e := range tuple {
			out = append(out, ToJSON(t.Elems[i], e))
		}
		return out
	case *TypeObject:
		obj := v.(Object)
		out := make(map[string]any, len(obj))
		for i, f := range t.Fields {
			out[f.Name] = ToJSON(f.Type, obj[i])
		}
		return out
	case *TypeMap:
		m := v.(*Map)
		if t.Key.Kind() == StringKind {
			out := make(map[string]any, m.Len())
			for i, k := range m.keys {
				out[k.(string)] = ToJSON(t.Value, m.vals[i])
			}
			return out
		}
		out := make([]any, 0, m.Len())
		for i, k := range m.keys {
			out = append(out, []any{ToJSON(t.Key, k), ToJSON(t.Value, m.vals[i])})
		}
		return out
	}
	return v
}

// FromJSON converts a decoded JSON document to a value of type t.  It
// reports false if the document does not have the shape of t.
func FromJSON(t Type, doc any) (Value, bool) {
	switch t := t.(type) {
	case *TypeOfBool:
		v, ok := doc.(bool)
		return v, ok
	case *TypeOfInt:
		f, ok := doc.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, false
		}
		return int64(f), true
	case *TypeOfFloat:
		v, ok := doc.(float64)
		return v, ok
	case *TypeOfString:
		v, ok := doc.(string)
		return v, ok
	case *TypeOfPath:
		v, ok := doc.(string)
		return Path(v), ok
	case *TypeOfDate:
		switch doc := doc.(type) {
		case string:
			d, err := time.Parse(time.RFC3339Nano, doc)
			return d.UTC(), err == nil
		case float64:
			return time.UnixMilli(int64(doc)).UTC(), true
		}
		return nil, false
	case *TypeOfJSON:
		return JSON{doc}, true
	case *TypeList:
		elems, ok := doc.([]any)
		if !ok {
			return nil, false
		}
		b := NewListBuilder()
		for _, e := range elems {
			v, ok := FromJSON(t.Inner, e)
			if !ok {
				return nil, false
			}
			b.Add(v)
		}
		return b.List(), true
	case *TypeOptional:
		if doc == nil {
			return None, true
		}
		v, ok := FromJSON(t.Inner, doc)
		if !ok {
			return nil, false
		}
		return Some(v), true
	case *TypeTuple:
		elems, ok := doc.([]any)
		if !ok || len(elems) != len(t.Elems) {
			return nil, false
		}
		out := make(Tuple, 0, len(elems))
		for i, e := range elems {
			v, ok := FromJSON(t.Elems[i], e)
			if !ok {
				return nil, false
			}
			out = append(out, v)
		}
		return out, true
	case *TypeObject:
		fields, ok := doc.(map[string]any)
		if !ok {
			return nil, false
		}
		out := make(Object, 0, len(t.Fields))
		for _, f := range t.Fields {
			v, ok := FromJSON(f.Type, fields[f.Name])
			if !ok {
				return nil, false
			}
			out = append(out, v)
		}
		return out, true
	case *TypeMap:
		m := NewMap()
		switch doc := doc.(type) {
		case map[string]any:
			if t.Key.Kind() != StringKind {
				return nil, false
			}
			for _, k := range slices.Sorted(maps.Keys(doc)) {
				v, ok := FromJSON(t.Value, doc[k])
				if !ok {
					return nil, false
				}
				m.Put(k, v)
			}
			return m, true
		case []any:
			for _, e := range doc {
				pair, ok := e.([]any)
				if !ok || len(pair) != 2 {
					return nil, false
				}
				k, ok := FromJSON(t.Key, pair[0])
				if !ok {
					return nil, false
				}
				v, ok := FromJSON(t.Value, pair[1])
				if !ok {
					return nil, false
				}
				m.Put(k, v)
			}
			return m, true
		}
	}
	return nil, false
}
