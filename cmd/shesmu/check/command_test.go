package check

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/cmd/shesmu/root"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/input"
	"github.com/oicr-gsi/shesmu/runtime/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func registry(t *testing.T) *definitions.Registry {
	set := input.NewSet()
	require.NoError(t, set.Add(&input.Static{
		Name: "sample",
		Vars: []definitions.Variable{
			{Name: "id", Type: shesmu.TypeString, Signable: true},
			{Name: "size", Type: shesmu.TypeInt},
		},
	}, 0))
	reg, err := exec.NewRegistry(set, zap.NewNop())
	require.NoError(t, err)
	return reg
}

func TestCheckClean(t *testing.T) {
	c := &Command{Command: &root.Command{}}
	var out bytes.Buffer
	ok, err := c.check(&out, registry(t), source{name: "ok.shesmu", text: `
Input sample;
Olive Where size > 1 Run nothing With value = id;
`})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out.String())
}

func TestCheckPrintsSortedDiagnostics(t *testing.T) {
	c := &Command{Command: &root.Command{}}
	var out bytes.Buffer
	ok, err := c.check(&out, registry(t), source{name: "bad.shesmu", text: `Input sample;
Olive Where sise > 1 Run nothing With value = id;
Olive Run nothing With value = 3;
`})
	require.NoError(t, err)
	assert.False(t, ok)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "bad.shesmu:2:"), lines[0])
	assert.Contains(t, lines[0], "NameError")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "bad.shesmu:3:"), lines[len(lines)-1])
}

func TestCheckFileAST(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.shesmu")
	require.NoError(t, os.WriteFile(path, []byte("Input sample;\nOlive Run nothing With value = id;\n"), 0o644))
	c := &Command{Command: &root.Command{}, ast: true}
	var out bytes.Buffer
	ok, err := c.check(&out, registry(t), source{name: path, file: true})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "OliveDecl")
}

func TestCheckMissingFile(t *testing.T) {
	c := &Command{Command: &root.Command{}}
	_, err := c.check(&bytes.Buffer{}, registry(t), source{name: "/nonexistent/x.shesmu", file: true})
	assert.Error(t, err)
}
