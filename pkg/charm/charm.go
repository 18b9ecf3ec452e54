// Package charm is a minimalist CLI framework inspired by cobra and
// urfave/cli.  A tree of Specs is resolved against the command line one
// word at a time; each level parses its own flags.
package charm

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

var (
	NeedHelp   = errors.New("help")
	ErrNoRun   = errors.New("no run method")
	ErrUnknown = errors.New("unknown command")
)

type Constructor func(Command, *flag.FlagSet) (Command, error)

type Command interface {
	Run([]string) error
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	New   Constructor
	// Hidden hides this command from help.
	Hidden   bool
	children []*Spec
	parent   *Spec
}

func (s *Spec) Add(child *Spec) {
	s.children = append(s.children, child)
	child.parent = s
}

func (s *Spec) lookup(name string) *Spec {
	for _, child := range s.children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Exec runs the command named by args, printing help to stderr when the
// command asks for it.
func (s *Spec) Exec(args []string) error {
	return s.exec(args, os.Stderr)
}

func (s *Spec) exec(args []string, w io.Writer) error {
	spec, fs, cmd, rest, err := s.resolve(nil, args)
	if err == nil {
		err = cmd.Run(rest)
	}
	if errors.Is(err, NeedHelp) {
		spec.help(w, fs)
		return nil
	}
	return err
}

// resolve walks down the tree while the next positional argument names
// a child, constructing each command with its parent.
func (s *Spec) resolve(parent Command, args []string) (*Spec, *flag.FlagSet, Command, []string, error) {
	fs := flag.NewFlagSet(s.Name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd, err := s.New(parent, fs)
	if err != nil {
		return s, fs, nil, nil, err
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return s, fs, nil, nil, NeedHelp
		}
		return s, fs, nil, nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	rest := fs.Args()
	if len(rest) > 0 {
		if child := s.lookup(rest[0]); child != nil {
			return child.resolve(cmd, rest[1:])
		}
		if rest[0] == "help" {
			return s, fs, nil, nil, NeedHelp
		}
	}
	return s, fs, cmd, rest, nil
}

func (s *Spec) path() string {
	if s.parent == nil {
		return s.Name
	}
	return s.parent.path() + " " + s.Name
}

func (s *Spec) help(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "NAME\n    %s - %s\n\n", s.path(), s.Short)
	fmt.Fprintf(w, "USAGE\n    %s\n", s.Usage)
	if long := strings.TrimSpace(s.Long); long != "" {
		fmt.Fprintf(w, "\nDESCRIPTION\n%s\n", indent(long))
	}
	var flags []*flag.Flag
	fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
	if len(flags) > 0 {
		fmt.Fprintln(w, "\nOPTIONS")
		for _, f := range flags {
			fmt.Fprintf(w, "    -%s (default %q)\n        %s\n", f.Name, f.DefValue, f.Usage)
		}
	}
	var children []*Spec
	for _, c := range s.children {
		if !c.Hidden {
			children = append(children, c)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	if len(children) > 0 {
		fmt.Fprintln(w, "\nCOMMANDS")
		for _, c := range children {
			fmt.Fprintf(w, "    %-12s %s\n", c.Name, c.Short)
		}
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n")
}

// NoRun is the Run of commands that only group subcommands.
func NoRun(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return fmt.Errorf("%w: %s", ErrUnknown, args[0])
}
