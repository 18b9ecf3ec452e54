package expr

import (
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/oicr-gsi/shesmu"
)

// Interpolation builds a string from literal text and formatted values.
type Interpolation struct {
	parts []Part
}

type Part struct {
	Text   string
	Expr   Evaluator
	Width  int
	Format *strftime.Strftime
}

func NewInterpolation(parts []Part) *Interpolation {
	return &Interpolation{parts}
}

func (i *Interpolation) Eval(f *Frame) shesmu.Value {
	var b strings.Builder
	for _, p := range i.parts {
		if p.Expr == nil {
			b.WriteString(p.Text)
			continue
		}
		v := p.Expr.Eval(f)
		switch {
		case p.Format != nil:
			b.WriteString(p.Format.FormatString(v.(time.Time)))
		case p.Width > 0:
			s := shesmu.Format(v)
			if n := p.Width - len(s); n > 0 {
				b.WriteString(strings.Repeat("0", n))
			}
			b.WriteString(s)
		default:
			b.WriteString(shesmu.Format(v))
		}
	}
	return b.String()
}

var javaDateLetters = []struct {
	pattern string
	verb    string
}{
	{"yyyy", "%Y"},
	{"yy", "%y"},
	{"MMMM", "%B"},
	{"MMM", "%b"},
	{"MM", "%m"},
	{"dd", "%d"},
	{"EEEE", "%A"},
	{"EEE", "%a"},
	{"HH", "%H"},
	{"hh", "%I"},
	{"mm", "%M"},
	{"ss", "%S"},
	{"DDD", "%j"},
}

// NewDateFormat compiles a date pattern.  Patterns holding a % are
// strftime patterns; others use the letters of Java's
// DateTimeFormatter, which are translated.
func NewDateFormat(pattern string) (*strftime.Strftime, error) {
	if !strings.Contains(pattern, "%") {
		var b strings.Builder
		for rest := pattern; rest != ""; {
			matched := false
			for _, l := range javaDateLetters {
				if strings.HasPrefix(rest, l.pattern) {
					b.WriteString(l.verb)
					rest = rest[len(l.pattern):]
					matched = true
					break
				}
			}
			if !matched {
				b.WriteByte(rest[0])
				rest = rest[1:]
			}
		}
		pattern = b.String()
	}
	return strftime.New(pattern)
}
