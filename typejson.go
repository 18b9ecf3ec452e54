package shesmu

import (
	"encoding/json"
)

// RenderJSON returns the tagged JSON description of t used by external
// tools.  Primitives render as their descriptor string, tuples as arrays,
// and composites as objects tagged with "is".
func RenderJSON(t Type) json.RawMessage {
	b, err := json.Marshal(jsonOfType(t))
	if err != nil {
		// Every node is a string, slice or map of strings.
		panic(err)
	}
	return b
}

func jsonOfType(t Type) any {
	switch t := t.(type) {
	case *TypeList:
		return map[string]any{"is": "list", "inner": jsonOfType(t.Inner)}
	case *TypeOptional:
		return map[string]any{"is": "optional", "inner": jsonOfType(t.Inner)}
	case *TypeMap:
		return map[string]any{
			"is":    "dictionary",
			"key":   jsonOfType(t.Key),
			"value": jsonOfType(t.Value),
		}
	case *TypeTuple:
		elems := make([]any, 0, len(t.Elems))
		for _, e := range t.Elems {
			elems = append(elems, jsonOfType(e))
		}
		return elems
	case *TypeObject:
		fields := make(map[string]any, len(t.Fields))
		for _, f := range t.Fields {
			fields[f.Name] = jsonOfType(f.Type)
		}
		return map[string]any{"is": "object", "fields": fields}
	}
	return t.Descriptor()
}
