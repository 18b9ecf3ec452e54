package srcfiles

import (
	"fmt"
	"slices"
	"strings"
)

// Kind classifies a diagnostic.
type Kind string

const (
	ParseError       Kind = "ParseError"
	NameError        Kind = "NameError"
	TypeError        Kind = "TypeError"
	OrderError       Kind = "OrderError"
	ConsumptionError Kind = "ConsumptionError"
	SignatureError   Kind = "SignatureError"
)

// ErrorList is a list of Errors.
type ErrorList []*Error

// Append appends an Error to e.
func (e *ErrorList) Append(list *List, kind Kind, msg string, pos, end int) {
	*e = append(*e, &Error{kind, msg, pos, end, list})
}

// Bind points errors created elsewhere back at list.
func (e ErrorList) Bind(list *List) {
	for i := range e {
		e[i].list = list
	}
}

// Sort orders the errors by source position keeping the order of errors
// reported at the same position.
func (e ErrorList) Sort() {
	slices.SortStableFunc(e, func(a, b *Error) int {
		return a.Pos - b.Pos
	})
}

// Count returns the number of errors of the given kind.
func (e ErrorList) Count(kind Kind) int {
	var n int
	for _, err := range e {
		if err.Kind == kind {
			n++
		}
	}
	return n
}

// Error concatenates the errors in e with a newline between each.
func (e ErrorList) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

type Error struct {
	Kind Kind
	Msg  string
	Pos  int
	End  int
	list *List
}

// Position returns the line and column of the start of the error.
func (e *Error) Position() Position {
	if e.list == nil || len(e.list.Files) == 0 {
		return Position{-1, -1, -1, -1}
	}
	return e.list.FileOf(e.Pos).Position(e.Pos)
}

// Error formats e as "file:line:col: kind: message".
func (e *Error) Error() string {
	if e.list == nil || len(e.list.Files) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	file := e.list.FileOf(e.Pos)
	start := file.Position(e.Pos)
	name := file.Name
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", name, start.Line, start.Column, e.Kind, e.Msg)
}

// Excerpt renders the source line of e with the offending span
// underlined.
func (e *Error) Excerpt() string {
	if e.list == nil || len(e.list.Files) == 0 {
		return ""
	}
	file := e.list.FileOf(e.Pos)
	start := file.Position(e.Pos)
	end := file.Position(e.End)
	line := file.LineOfPos(e.list.Text, e.Pos)
	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	if end.IsValid() && end.Pos > start.Pos {
		formatSpanError(&b, line, start, end)
	} else {
		formatPointError(&b, start)
	}
	return b.String()
}

func formatSpanError(b *strings.Builder, line string, start, end Position) {
	b.WriteString(strings.Repeat(" ", start.Column-1))
	n := end.Column - start.Column
	if start.Line != end.Line || n <= 0 {
		n = len(line) - start.Column + 1
	}
	b.WriteString(strings.Repeat("~", n))
}

func formatPointError(b *strings.Builder, start Position) {
	b.WriteString(strings.Repeat(" ", start.Column-1))
	b.WriteString("^")
}
