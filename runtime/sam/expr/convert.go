package expr

import (
	"regexp"

	"github.com/oicr-gsi/shesmu"
)

// ToJSON converts a value of a known type to json.
type ToJSON struct {
	expr Evaluator
	typ  shesmu.Type
}

func NewToJSON(e Evaluator, typ shesmu.Type) *ToJSON {
	return &ToJSON{e, typ}
}

func (t *ToJSON) Eval(f *Frame) shesmu.Value {
	v := t.expr.Eval(f)
	if j, ok := v.(shesmu.JSON); ok {
		return j
	}
	return shesmu.JSON{V: shesmu.ToJSON(t.typ, v)}
}

// FromJSON converts json to an optional of typ, empty when the document
// does not fit.
type FromJSON struct {
	expr Evaluator
	typ  shesmu.Type
}

func NewFromJSON(e Evaluator, typ shesmu.Type) *FromJSON {
	return &FromJSON{e, typ}
}

func (c *FromJSON) Eval(f *Frame) shesmu.Value {
	v, ok := shesmu.FromJSON(c.typ, c.expr.Eval(f).(shesmu.JSON).V)
	if !ok {
		return shesmu.None
	}
	return shesmu.Some(v)
}

// RegexpMatch reports whether the whole string matches.
type RegexpMatch struct {
	re   *regexp.Regexp
	expr Evaluator
}

func NewRegexpMatch(pattern string, e Evaluator) (*RegexpMatch, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, err
	}
	return &RegexpMatch{re, e}, nil
}

func (r *RegexpMatch) Eval(f *Frame) shesmu.Value {
	return r.re.MatchString(r.expr.Eval(f).(string))
}
