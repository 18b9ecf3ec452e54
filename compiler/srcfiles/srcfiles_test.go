package srcfiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	l := NewList("a.shesmu", "Olive\n  Run nothing\n")
	pos := l.FileOf(8).Position(8)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 3, pos.Column)
	assert.Equal(t, "  Run nothing", l.Files[0].LineOfPos(l.Text, 8))
	end := l.FileOf(len(l.Text)).Position(len(l.Text))
	assert.Equal(t, 2, end.Line)
}

func TestEmptySource(t *testing.T) {
	l := NewList("", "")
	l.AddError(ParseError, "unexpected end of input", 0, 0)
	assert.EqualError(t, l.Error(), "<input>:1:1: ParseError: unexpected end of input")
}

func TestErrorsSortedByPosition(t *testing.T) {
	l := NewList("x.shesmu", "Where a\nWhere b\n")
	l.AddError(TypeError, "second", 14, 15)
	l.AddError(NameError, "first", 6, 7)
	errs := l.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "x.shesmu:1:7: NameError: first", errs[0].Error())
	assert.Equal(t, "x.shesmu:2:7: TypeError: second", errs[1].Error())
	assert.Equal(t, 1, errs.Count(TypeError))
	assert.Equal(t, "Where b\n      ~", errs[1].Excerpt())
}

func TestConcatNamesFiles(t *testing.T) {
	l, err := Concat(nil, "Olive Run nothing With value = \"x\";")
	require.NoError(t, err)
	require.Len(t, l.Files, 1)
	assert.Equal(t, "", l.Files[0].Name)
}
