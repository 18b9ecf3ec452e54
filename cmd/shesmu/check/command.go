package check

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/oicr-gsi/shesmu/cli/inputflags"
	"github.com/oicr-gsi/shesmu/cli/queryflags"
	"github.com/oicr-gsi/shesmu/cmd/shesmu/root"
	"github.com/oicr-gsi/shesmu/compiler"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/compiler/parser"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
	"github.com/oicr-gsi/shesmu/pkg/charm"
	"github.com/oicr-gsi/shesmu/runtime/exec"
)

var spec = &charm.Spec{
	Name:  "check",
	Usage: "check [ options ] [ file ... ]",
	Short: "parse and type check olive files",
	Long: `
This command parses and analyzes each olive file against the input
formats in the settings and prints every diagnostic as

  file:line:col: Kind: message

sorted by position.  It exits with status 1 if any file has a
diagnostic.  With no files, the olive source in $SHESMU_SCRIPT is
checked.

The "-ast" flag prints the parsed syntax tree of each file instead and
"-dag" prints the analyzed program as JSON.
`,
	New: New,
}

func init() {
	root.Shesmu.Add(spec)
}

var ErrFailed = errors.New("check failed")

type Command struct {
	*root.Command
	inputFlags inputflags.Flags
	ast        bool
	dag        bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	f.BoolVar(&c.ast, "ast", false, "print the parsed syntax tree")
	f.BoolVar(&c.dag, "dag", false, "print the analyzed program as JSON")
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	set, err := c.inputFlags.Open(false)
	if err != nil {
		return err
	}
	reg, err := exec.NewRegistry(set, c.Logger)
	if err != nil {
		return err
	}
	sources, err := sources(args)
	if err != nil {
		return err
	}
	failed := false
	for _, s := range sources {
		ok, err := c.check(os.Stdout, reg, s)
		if err != nil {
			return err
		}
		failed = failed || !ok
	}
	if failed {
		return ErrFailed
	}
	return nil
}

type source struct {
	name string
	text string
	file bool
}

func sources(args []string) ([]source, error) {
	if len(args) == 0 {
		name, text, ok := queryflags.Script()
		if !ok {
			return nil, charm.NeedHelp
		}
		return []source{{name: name, text: text}}, nil
	}
	var out []source
	for _, a := range args {
		out = append(out, source{name: a, file: true})
	}
	return out, nil
}

func (s source) parse() (*parser.AST, error) {
	if s.file {
		return parser.ParseFiles(s.name)
	}
	return parser.ParseText(s.name, s.text)
}

// check reports whether s is free of diagnostics, printing them to w.
func (c *Command) check(w io.Writer, reg *definitions.Registry, s source) (bool, error) {
	a, err := s.parse()
	if err != nil && !errors.As(err, new(srcfiles.ErrorList)) {
		return false, err
	}
	if c.ast {
		pretty.Fprintf(w, "%# v\n", a.Parsed())
		return err == nil, nil
	}
	prog, err := compiler.Compile(a, reg, "")
	if err != nil {
		var list srcfiles.ErrorList
		if !errors.As(err, &list) {
			return false, err
		}
		list.Sort()
		for _, e := range list {
			fmt.Fprintln(w, e)
		}
		return false, nil
	}
	if c.dag {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(prog); err != nil {
			return false, err
		}
	}
	return true, nil
}
