package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alecthomas/units"
	"golang.org/x/text/unicode/norm"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokPath
	tokPunct
	tokIllegal
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "integer"
	case tokFloat:
		return "float"
	case tokString:
		return "string"
	case tokPath:
		return "path"
	case tokPunct:
		return "symbol"
	}
	return "illegal character"
}

type token struct {
	kind  tokenKind
	text  string
	pos   int
	end   int
	ival  int64
	fval  float64
	parts []rawPart
	err   string
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string literal"
	}
	return fmt.Sprintf("%q", t.text)
}

// rawPart is a piece of a string literal.  Interpolations keep the source
// range of the expression so it can be parsed in place.
type rawPart struct {
	text   string
	interp bool
	pos    int
	end    int
	width  int
	format string
}

// suffixes multiply an integer literal immediately followed by one of
// them.  Time suffixes convert to seconds.
var suffixes = map[string]int64{
	"k":       int64(units.Kilo),
	"M":       int64(units.Mega),
	"G":       int64(units.Giga),
	"T":       int64(units.Tera),
	"P":       int64(units.Peta),
	"Ki":      int64(units.Kibibyte),
	"Mi":      int64(units.Mebibyte),
	"Gi":      int64(units.Gibibyte),
	"Ti":      int64(units.Tebibyte),
	"Pi":      int64(units.Pebibyte),
	"seconds": 1,
	"mins":    int64(time.Minute / time.Second),
	"minutes": int64(time.Minute / time.Second),
	"hours":   int64(time.Hour / time.Second),
	"days":    int64(24 * time.Hour / time.Second),
	"weeks":   int64(7 * 24 * time.Hour / time.Second),
}

var puncts = []string{
	"==", "!=", "<=", ">=", "&&", "||",
	"(", ")", "[", "]", "{", "}", ",", ";", "=", "<", ">",
	"+", "-", "*", "/", "%", "!", "~", ".", ":", "?", "`",
}

type lexer struct {
	src   string
	off   int
	limit int
}

func newLexer(src string, start, limit int) *lexer {
	return &lexer{src: src, off: start, limit: limit}
}

func (l *lexer) skipSpace() {
	for l.off < l.limit {
		c := l.src[l.off]
		switch {
		case c == '#':
			for l.off < l.limit && l.src[l.off] != '\n' {
				l.off++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.off++
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) next() token {
	l.skipSpace()
	start := l.off
	if l.off >= l.limit {
		return token{kind: tokEOF, pos: start, end: start}
	}
	c := l.src[l.off]
	switch {
	case isIdentStart(c):
		for l.off < l.limit && isIdentChar(l.src[l.off]) {
			l.off++
		}
		return token{kind: tokIdent, text: l.src[start:l.off], pos: start, end: l.off}
	case isDigit(c):
		return l.number()
	case c == '"':
		return l.str()
	case c == '\'':
		l.off++
		for l.off < l.limit && l.src[l.off] != '\'' && l.src[l.off] != '\n' {
			l.off++
		}
		if l.off >= l.limit || l.src[l.off] != '\'' {
			return token{kind: tokIllegal, pos: start, end: l.off, err: "unterminated path literal"}
		}
		l.off++
		return token{kind: tokPath, text: l.src[start+1 : l.off-1], pos: start, end: l.off}
	}
	for _, p := range puncts {
		if strings.HasPrefix(l.src[l.off:l.limit], p) {
			l.off += len(p)
			return token{kind: tokPunct, text: p, pos: start, end: l.off}
		}
	}
	_, n := utf8.DecodeRuneInString(l.src[l.off:l.limit])
	l.off += n
	return token{kind: tokIllegal, text: l.src[start:l.off], pos: start, end: l.off, err: fmt.Sprintf("unexpected character %q", l.src[start:l.off])}
}

func (l *lexer) number() token {
	start := l.off
	for l.off < l.limit && isDigit(l.src[l.off]) {
		l.off++
	}
	if l.off+1 < l.limit && l.src[l.off] == '.' && isDigit(l.src[l.off+1]) {
		l.off++
		for l.off < l.limit && isDigit(l.src[l.off]) {
			l.off++
		}
		if l.off < l.limit && (l.src[l.off] == 'e' || l.src[l.off] == 'E') {
			l.off++
			if l.off < l.limit && (l.src[l.off] == '-' || l.src[l.off] == '+') {
				l.off++
			}
			for l.off < l.limit && isDigit(l.src[l.off]) {
				l.off++
			}
		}
		text := l.src[start:l.off]
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{kind: tokIllegal, text: text, pos: start, end: l.off, err: "malformed float " + text}
		}
		return token{kind: tokFloat, text: text, pos: start, end: l.off, fval: f}
	}
	digits := l.src[start:l.off]
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return token{kind: tokIllegal, text: digits, pos: start, end: l.off, err: "integer out of range " + digits}
	}
	suffixStart := l.off
	for l.off < l.limit && isIdentStart(l.src[l.off]) {
		l.off++
	}
	text := l.src[start:l.off]
	if suffix := l.src[suffixStart:l.off]; suffix != "" {
		scale, ok := suffixes[suffix]
		if !ok {
			return token{kind: tokIllegal, text: text, pos: start, end: l.off, err: fmt.Sprintf("unknown integer suffix %q", suffix)}
		}
		n *= scale
	}
	return token{kind: tokInt, text: text, pos: start, end: l.off, ival: n}
}

func (l *lexer) str() token {
	start := l.off
	l.off++
	var parts []rawPart
	var b strings.Builder
	textStart := l.off
	flush := func() {
		if b.Len() > 0 {
			parts = append(parts, rawPart{text: norm.NFC.String(b.String()), pos: textStart, end: l.off})
			b.Reset()
		}
	}
	for {
		if l.off >= l.limit || l.src[l.off] == '\n' {
			return token{kind: tokIllegal, pos: start, end: l.off, err: "unterminated string literal"}
		}
		c := l.src[l.off]
		switch c {
		case '"':
			flush()
			l.off++
			return token{kind: tokString, text: l.src[start:l.off], pos: start, end: l.off, parts: parts}
		case '\\':
			if l.off+1 >= l.limit {
				return token{kind: tokIllegal, pos: start, end: l.off, err: "unterminated string literal"}
			}
			switch e := l.src[l.off+1]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '"', '{', '}':
				b.WriteByte(e)
			default:
				return token{kind: tokIllegal, pos: l.off, end: l.off + 2, err: fmt.Sprintf("unknown escape \\%c", e)}
			}
			l.off += 2
		case '{':
			flush()
			part, ok := l.interpolation()
			if !ok {
				return token{kind: tokIllegal, pos: l.off, end: l.off + 1, err: "unterminated interpolation"}
			}
			parts = append(parts, part)
			textStart = l.off
		default:
			b.WriteByte(c)
			l.off++
		}
	}
}

// interpolation scans "{expr}", "{expr:width}" or "{expr:format}" with l.off
// at the opening brace.
func (l *lexer) interpolation() (rawPart, bool) {
	open := l.off
	depth := 0
	colon := -1
	for i := open + 1; i < l.limit; i++ {
		switch l.src[i] {
		case '"':
			// Skip a nested string literal.
			for i++; i < l.limit && l.src[i] != '"'; i++ {
				if l.src[i] == '\\' {
					i++
				}
			}
		case '{', '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth == 0 && colon < 0 {
				colon = i
			}
		case '\n':
			return rawPart{}, false
		case '}':
			if depth > 0 {
				depth--
				continue
			}
			part := rawPart{interp: true, pos: open + 1, end: i}
			if colon >= 0 {
				spec := l.src[colon+1 : i]
				if spec != "" && !strings.ContainsAny(spec, " \t") {
					part.end = colon
					if w, err := strconv.Atoi(spec); err == nil {
						part.width = w
					} else {
						part.format = spec
					}
				}
			}
			l.off = i + 1
			return part, true
		}
	}
	return rawPart{}, false
}

// word returns the raw text up to the next blank or delimiter.  It is
// used for date literals, which a token-level scan would split apart.
func (l *lexer) word() (string, int, int) {
	l.skipSpace()
	start := l.off
	for l.off < l.limit && !strings.ContainsRune(" \t\r\n;,)]}`", rune(l.src[l.off])) {
		l.off++
	}
	return l.src[start:l.off], start, l.off
}

// regex scans "/pattern/" after a match operator.
func (l *lexer) regex() (string, int, int, bool) {
	l.skipSpace()
	start := l.off
	if l.off >= l.limit || l.src[l.off] != '/' {
		return "", start, start, false
	}
	var b strings.Builder
	for l.off++; l.off < l.limit; l.off++ {
		c := l.src[l.off]
		switch c {
		case '\n':
			return "", start, l.off, false
		case '\\':
			if l.off+1 < l.limit && l.src[l.off+1] == '/' {
				b.WriteByte('/')
				l.off++
				continue
			}
			b.WriteByte(c)
		case '/':
			l.off++
			return b.String(), start, l.off, true
		default:
			b.WriteByte(c)
		}
	}
	return "", start, l.off, false
}
