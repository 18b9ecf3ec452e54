package shesmu

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Format renders v the way string interpolation and Concatenate do.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v)
	return b.String()
}

func format(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		b.WriteString(v)
	case time.Time:
		b.WriteString(v.UTC().Format(time.RFC3339Nano))
	case Path:
		b.WriteString(string(v))
	case JSON:
		doc, _ := json.Marshal(v.V)
		b.Write(doc)
	case Optional:
		if v.Valid {
			format(b, v.V)
		}
	case List:
		formatSeq(b, "[", "]", v)
	case Tuple:
		formatSeq(b, "{", "}", v)
	case Object:
		formatSeq(b, "{", "}", v)
	case *Map:
		b.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, k)
			b.WriteString(" = ")
			format(b, v.vals[i])
		}
		b.WriteByte('}')
	}
}

func formatSeq(b *strings.Builder, open, close string, vals []Value) {
	b.WriteString(open)
	for i, e := range vals {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, e)
	}
	b.WriteString(close)
}
