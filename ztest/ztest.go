// Package ztest runs formulaic end-to-end tests ("ztests") of olive
// programs.  A ztest is a YAML file giving the input format settings, the
// olive source and the expected actions or diagnostics.
//
//	settings: |
//	  formats:
//	    - name: sample
//	      variables:
//	        - {name: p, type: s, signable: true}
//	        - {name: v, type: i}
//	      records:
//	        - {p: A, v: 1}
//	        - {p: A, v: 3}
//
//	olive: |
//	  Input sample;
//	  Olive Group By p Into total = Reduce (s = 0) s + v
//	    Run nothing With value = "{p}:{total}";
//
//	output: |
//	  nothing value=A:4
//
// Each action is printed on its own line as its kind followed by its
// parameters, sorted by name, as name=value.  Values are rendered the way
// string interpolation renders them.  Actions appear in the order they
// were first generated, olive by olive.
//
// A test expecting a compile or run failure gives the error text instead.
// Compile errors are the sorted diagnostics, one per line.
//
//	olive: |
//	  Olive Run nothing With value = 3;
//	error: |
//	  test.shesmu:1:1: NameError: no input format declared
//
// Ztest YAML files reside in a directory named ztests.  Name them
// descriptively since each runs as a subtest named for its file.
//
//	func TestZTest(t *testing.T) { ztest.Run(t, "ztests") }
//
// Tests can be skipped by setting the skip field to a non-empty string.
package ztest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action/memsink"
	"github.com/oicr-gsi/shesmu/compiler"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
	"github.com/oicr-gsi/shesmu/input"
	"github.com/oicr-gsi/shesmu/runtime/exec"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SourceName is the file name diagnostics refer to.
const SourceName = "test.shesmu"

type Bundle struct {
	TestName string
	FileName string
	Test     *ZTest
	Error    error
}

func Load(dirname string) ([]Bundle, error) {
	var bundles []Bundle
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		filename := e.Name()
		const dotyaml = ".yaml"
		if !strings.HasSuffix(filename, dotyaml) {
			continue
		}
		testname := strings.TrimSuffix(filename, dotyaml)
		filename = filepath.Join(dirname, filename)
		zt, err := FromYAMLFile(filename)
		bundles = append(bundles, Bundle{testname, filename, zt, err})
	}
	return bundles, nil
}

// Run runs the ztests in the directory named dirname, each in a subtest
// named for its file.
func Run(t *testing.T, dirname string) {
	bundles, err := Load(dirname)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bundles {
		t.Run(b.TestName, func(t *testing.T) {
			t.Parallel()
			if b.Error != nil {
				t.Fatalf("%s: %s", b.FileName, b.Error)
			}
			b.Test.Run(t, b.FileName)
		})
	}
}

// ZTest defines a ztest.
type ZTest struct {
	Skip     string `yaml:"skip,omitempty"`
	Settings string `yaml:"settings,omitempty"`
	Olive    string `yaml:"olive"`
	Output   string `yaml:"output,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// FromYAMLFile loads a ZTest from the YAML file named filename.
func FromYAMLFile(filename string) (*ZTest, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var z ZTest
	if err := dec.Decode(&z); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if z.Olive == "" {
		return nil, errors.New("olive field missing")
	}
	return &z, nil
}

func (z *ZTest) Run(t *testing.T, filename string) {
	if z.Skip != "" {
		t.Skip("skipping test:", z.Skip)
	}
	if err := z.diff(z.RunInternal(t.Context())); err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
}

// RunInternal compiles and runs the olive once and renders the actions.
func (z *ZTest) RunInternal(ctx context.Context) (string, error) {
	set, err := input.Load([]byte(z.Settings), "")
	if err != nil {
		return "", err
	}
	reg, err := exec.NewRegistry(set, zap.NewNop())
	if err != nil {
		return "", err
	}
	prog, err := compiler.CompileText(SourceName, z.Olive, reg, "")
	if err != nil {
		var list srcfiles.ErrorList
		if errors.As(err, &list) {
			list.Sort()
		}
		return "", err
	}
	sink := memsink.New()
	r, err := exec.NewRunner(SourceName, prog, reg, set, sink, zap.NewNop(), 0)
	if err != nil {
		return "", err
	}
	// Olives of one file run concurrently so they are rerun one at a
	// time for a stable action order.
	for _, olive := range prog.Olives {
		if res := r.RunOlive(ctx, olive); res.Err != nil {
			return render(sink), fmt.Errorf("olive %s: %w", res.Olive, res.Err)
		}
	}
	return render(sink), nil
}

func render(sink *memsink.Sink) string {
	var b strings.Builder
	for _, a := range sink.Actions() {
		params := append(a.Params[:0:0], a.Params...)
		sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
		b.WriteString(a.Kind)
		for _, p := range params {
			fmt.Fprintf(&b, " %s=%s", p.Name, shesmu.Format(p.Value))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (z *ZTest) diff(out string, err error) error {
	var outDiffErr, errDiffErr error
	if z.Output != out {
		outDiffErr = diffErr("output", z.Output, out)
	}
	var errStr string
	if err != nil {
		errStr = strings.TrimSuffix(err.Error(), "\n") + "\n"
	}
	if z.Error != errStr {
		errDiffErr = diffErr("error", z.Error, errStr)
	}
	return errors.Join(outDiffErr, errDiffErr)
}

func diffErr(name, expected, actual string) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		FromFile: "expected",
		B:        difflib.SplitLines(actual),
		ToFile:   "actual",
		Context:  5,
	})
	if err != nil {
		panic("ztest: " + err.Error())
	}
	return fmt.Errorf("expected and actual %s differ:\n%s", name, diff)
}
