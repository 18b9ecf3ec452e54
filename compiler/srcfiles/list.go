package srcfiles

import (
	"os"
	"sort"
	"strings"
)

// List is the source text of a compilation unit and the diagnostics
// reported against it.
type List struct {
	Text   string
	Files  []File
	errors ErrorList
}

// NewList returns a list holding a single named source.
func NewList(name, text string) *List {
	return &List{
		Text:  text,
		Files: []File{newFile(name, 0, []byte(text))},
	}
}

func (l *List) AddError(kind Kind, msg string, pos, end int) {
	l.errors.Append(l, kind, msg, pos, end)
}

// Errors returns the diagnostics sorted by position.
func (l *List) Errors() ErrorList {
	l.errors.Sort()
	return l.errors
}

func (l *List) Error() error {
	if len(l.errors) == 0 {
		return nil
	}
	return l.Errors()
}

func (l *List) FileOf(pos int) File {
	i := sort.Search(len(l.Files), func(i int) bool { return l.Files[i].start > pos }) - 1
	if i < 0 {
		i = 0
	}
	return l.Files[i]
}

// Concat reads in the indicated files and concatenates their content with
// newlines appending the final text.
func Concat(filenames []string, text string) (*List, error) {
	var b strings.Builder
	var files []File
	for _, f := range filenames {
		bb, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		files = append(files, newFile(f, b.Len(), bb))
		b.Write(bb)
		b.WriteByte('\n')
	}
	if text != "" || len(files) == 0 {
		// Empty string is the unnamed source text while the included
		// files all have names.
		files = append(files, newFile("", b.Len(), []byte(text)))
		b.WriteString(text)
	}
	return &List{Text: b.String(), Files: files}, nil
}
