package charm

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rootCmd struct {
	verbose bool
}

func (*rootCmd) Run(args []string) error { return NoRun(args) }

type leafCmd struct {
	*rootCmd
	ast  bool
	args []string
}

func (l *leafCmd) Run(args []string) error {
	l.args = args
	return nil
}

func tree(leaf **leafCmd) *Spec {
	root := &Spec{
		Name:  "tool",
		Usage: "tool [options] command",
		Short: "a tool",
		New: func(_ Command, fs *flag.FlagSet) (Command, error) {
			r := &rootCmd{}
			fs.BoolVar(&r.verbose, "v", false, "verbose")
			return r, nil
		},
	}
	root.Add(&Spec{
		Name:  "check",
		Usage: "tool check file...",
		Short: "check files",
		New: func(parent Command, fs *flag.FlagSet) (Command, error) {
			l := &leafCmd{rootCmd: parent.(*rootCmd)}
			fs.BoolVar(&l.ast, "ast", false, "print the AST")
			*leaf = l
			return l, nil
		},
	})
	return root
}

func TestExecResolvesChild(t *testing.T) {
	var leaf *leafCmd
	root := tree(&leaf)
	require.NoError(t, root.exec([]string{"-v", "check", "-ast", "a.shesmu", "b.shesmu"}, &bytes.Buffer{}))
	require.NotNil(t, leaf)
	assert.True(t, leaf.verbose)
	assert.True(t, leaf.ast)
	assert.Equal(t, []string{"a.shesmu", "b.shesmu"}, leaf.args)
}

func TestExecHelp(t *testing.T) {
	var leaf *leafCmd
	root := tree(&leaf)
	var out bytes.Buffer
	require.NoError(t, root.exec(nil, &out))
	assert.Contains(t, out.String(), "COMMANDS")
	assert.Contains(t, out.String(), "check")

	out.Reset()
	require.NoError(t, root.exec([]string{"check", "-h"}, &out))
	assert.Contains(t, out.String(), "tool check")
	assert.Contains(t, out.String(), "-ast")
}

func TestExecUnknown(t *testing.T) {
	var leaf *leafCmd
	root := tree(&leaf)
	err := root.exec([]string{"bogus"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknown)
}
