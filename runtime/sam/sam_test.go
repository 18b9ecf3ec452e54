package sam_test

import (
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action/memsink"
	"github.com/oicr-gsi/shesmu/compiler"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/runtime"
	"github.com/oicr-gsi/shesmu/runtime/sam"
	"github.com/oicr-gsi/shesmu/sbuf"
	"github.com/oicr-gsi/shesmu/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	names []string
	rows  [][]shesmu.Value
}

func (c *capture) Dump(names []string, _ []shesmu.Type, values []shesmu.Value) error {
	c.names = names
	c.rows = append(c.rows, values)
	return nil
}

func registry(t *testing.T, d definitions.Dumper) *definitions.Registry {
	reg := definitions.NewRegistry()
	require.NoError(t, reg.AddFormat(&definitions.InputFormat{
		Name: "test",
		Variables: []definitions.Variable{
			{Name: "x", Type: shesmu.TypeInt, Signable: true},
			{Name: "p", Type: shesmu.TypeString, Signable: true},
			{Name: "v", Type: shesmu.TypeInt},
			{Name: "name", Type: shesmu.TypeString, Signable: true},
		},
	}))
	require.NoError(t, reg.AddFormat(&definitions.InputFormat{
		Name: "lims",
		Variables: []definitions.Variable{
			{Name: "name", Type: shesmu.TypeString, Signable: true},
			{Name: "ok", Type: shesmu.TypeBool},
		},
	}))
	require.NoError(t, reg.AddAction(&definitions.Action{
		Name:   "nothing",
		Params: []definitions.Param{{Name: "value", Type: shesmu.TypeString, Required: true}},
	}))
	require.NoError(t, signature.Register(reg))
	if d != nil {
		require.NoError(t, reg.AddDumper("capture", d))
	}
	return reg
}

// rec builds a test record in format variable order.
func rec(x int64, p string, v int64, name string) []shesmu.Value {
	return []shesmu.Value{x, p, v, name}
}

type result struct {
	values []string
	recs   int
	err    error
}

func run(t *testing.T, reg *definitions.Registry, src string, inputs sam.Inputs, recs [][]shesmu.Value) result {
	prog, err := compiler.CompileText("test.shesmu", src, reg, "test")
	require.NoError(t, err)
	require.Len(t, prog.Olives, 1)
	p, err := sam.NewProgram(prog, reg)
	require.NoError(t, err)
	env, err := p.Env(inputs)
	require.NoError(t, err)
	sink := memsink.New()
	q, err := p.Build(runtime.DefaultContext(), prog.Olives[0], env, sam.Source(recs), sink)
	require.NoError(t, err)
	out, err := sbuf.ReadAll(q)
	var values []string
	for _, a := range sink.Actions() {
		values = append(values, a.Param("value").(string))
	}
	return result{values: values, recs: len(out), err: err}
}

func TestRunEmitsAction(t *testing.T) {
	reg := registry(t, nil)
	res := run(t, reg, `Olive Run nothing Where x == 1 With value = "ok";`, nil, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
		rec(2, "A", 1, "a"),
	})
	require.NoError(t, res.err)
	assert.Equal(t, []string{"ok"}, res.values)
}

func TestDuplicateActionsCollapse(t *testing.T) {
	reg := registry(t, nil)
	res := run(t, reg, `Olive Run nothing With value = p;`, nil, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
		rec(2, "A", 2, "b"),
		rec(3, "B", 3, "c"),
	})
	require.NoError(t, res.err)
	assert.Equal(t, []string{"A", "B"}, res.values)
}

func TestGroupSum(t *testing.T) {
	reg := registry(t, nil)
	src := `Olive Group By p Into total = Reduce (s = 0) s + v Run nothing With value = "{p}:{total}";`
	res := run(t, reg, src, nil, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
		rec(2, "B", 2, "b"),
		rec(3, "A", 3, "c"),
	})
	require.NoError(t, res.err)
	assert.Equal(t, []string{"A:4", "B:2"}, res.values)
}

func TestUnivaluedConstant(t *testing.T) {
	reg := registry(t, nil)
	prog, err := compiler.CompileText("test.shesmu", `
Const same = For v In [1, 1, 1]: Univalued v;
Const mixed = For v In [1, 2]: Univalued v;
Olive Run nothing With value = "{same}";
`, reg, "test")
	require.NoError(t, err)
	p, err := sam.NewProgram(prog, reg)
	require.NoError(t, err)
	env, err := p.Env(nil)
	require.NoError(t, err)
	require.Len(t, env.Consts, 2)
	assert.Equal(t, shesmu.Some(int64(1)), env.Consts[0])
	assert.Equal(t, shesmu.None, env.Consts[1])
}

func TestLeftJoinCounts(t *testing.T) {
	reg := registry(t, nil)
	src := `Olive LeftJoin name To Prefix lims_ lims name Where lims_ok Into n = Count Run nothing With value = "{name} {n}";`
	inputs := sam.Inputs{"lims": {
		{"a", true},
		{"a", true},
		{"a", false},
		{"c", true},
	}}
	res := run(t, reg, src, inputs, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
		rec(2, "B", 2, "b"),
	})
	require.NoError(t, res.err)
	assert.Equal(t, []string{"a 2", "b 0"}, res.values)
}

func TestDefineCall(t *testing.T) {
	reg := registry(t, nil)
	src := `
Define big(limit integer) Where v > limit;
Olive Call big(2) Run nothing With value = p;
`
	res := run(t, reg, src, nil, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
		rec(2, "B", 3, "b"),
		rec(3, "C", 5, "c"),
	})
	require.NoError(t, res.err)
	assert.Equal(t, []string{"B", "C"}, res.values)
}

func TestSignatureNames(t *testing.T) {
	reg := registry(t, nil)
	res := run(t, reg, `Olive Run nothing With value = "{p}/{signature_names}";`, nil, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
	})
	require.NoError(t, res.err)
	require.Len(t, res.values, 1)
	assert.Contains(t, res.values[0], "A/[")
	assert.Contains(t, res.values[0], "p")
}

func TestDumpPassesRecords(t *testing.T) {
	c := &capture{}
	reg := registry(t, c)
	res := run(t, reg, `Olive Dump p, v To capture Run nothing With value = p;`, nil, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
		rec(2, "B", 2, "b"),
	})
	require.NoError(t, res.err)
	assert.Equal(t, []string{"A", "B"}, res.values)
	assert.Equal(t, [][]shesmu.Value{{"A", int64(1)}, {"B", int64(2)}}, c.rows)
}

func TestFlattenList(t *testing.T) {
	reg := registry(t, nil)
	res := run(t, reg, `Olive Flatten y In [x, x + 10] Run nothing With value = "{p}{y}";`, nil, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
	})
	require.NoError(t, res.err)
	assert.Equal(t, []string{"A1", "A11"}, res.values)
}

func TestLetAndFlattenInClausesAndLists(t *testing.T) {
	reg := registry(t, nil)
	res := run(t, reg, `Olive
  Let p, total = For y In [x, x + 10]: Let z = y * 2 Flatten w In [z, z + 1] Reduce (s = 0) s + w
  Flatten q In [total, total + 1]
  Run nothing With value = "{p}{q}";`, nil, [][]shesmu.Value{
		rec(1, "A", 1, "a"),
	})
	require.NoError(t, res.err)
	assert.Equal(t, []string{"A50", "A51"}, res.values)
}

func TestDivideByZeroFails(t *testing.T) {
	reg := registry(t, nil)
	res := run(t, reg, `Olive Run nothing With value = "{v / x}";`, nil, [][]shesmu.Value{
		rec(0, "A", 1, "a"),
	})
	assert.Error(t, res.err)
	assert.Empty(t, res.values)
}
