package input_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settings = `
formats:
  - name: sample
    ttl: 1m
    variables:
      - {name: size, type: i}
      - {name: id, type: s, signable: true}
    records:
      - {id: a, size: 3}
      - {id: b, size: 4}
  - name: run
    file: run.json
    variables:
      - {name: run, type: s}
      - {name: lanes, type: ai}
`

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.json"), []byte(`[{"run": "r1", "lanes": [1, 2]}]`), 0o644))
	set, err := input.Load([]byte(settings), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "sample"}, set.Names())

	reg := definitions.NewRegistry()
	require.NoError(t, set.Register(reg))
	f := reg.Format("sample")
	require.NotNil(t, f)
	assert.Equal(t, 0, f.IndexOf("id"))
	assert.Equal(t, 1, f.IndexOf("size"))

	ctx := context.Background()
	recs, err := set.Records(ctx, "sample")
	require.NoError(t, err)
	assert.Equal(t, [][]shesmu.Value{{"a", int64(3)}, {"b", int64(4)}}, recs)

	recs, err = set.Bind(ctx).Records("run")
	require.NoError(t, err)
	assert.Equal(t, [][]shesmu.Value{{shesmu.List{int64(1), int64(2)}, "r1"}}, recs)

	_, err = set.Records(ctx, "missing")
	assert.Error(t, err)
}

func TestLoadRejectsBadRecord(t *testing.T) {
	_, err := input.Load([]byte(`
formats:
  - name: bad
    variables:
      - {name: size, type: i}
    records:
      - {size: nope}
`), "")
	assert.ErrorContains(t, err, "field size")
}

func TestLoadEnvWithoutSettings(t *testing.T) {
	t.Setenv(input.SettingsEnv, "")
	_, err := input.LoadEnv()
	assert.ErrorIs(t, err, input.ErrNoSettings)
}

type flaky struct {
	input.Static
	fail bool
}

func (f *flaky) Records(ctx context.Context) ([][]shesmu.Value, error) {
	if f.fail {
		return nil, errors.New("provider down")
	}
	return f.Static.Records(ctx)
}

func TestStaleRecordsOnFailure(t *testing.T) {
	p := &flaky{Static: input.Static{
		Name: "f",
		Vars: []definitions.Variable{{Name: "a", Type: shesmu.TypeInt}},
		Recs: [][]shesmu.Value{{int64(1)}},
	}}
	set := input.NewSet()
	require.NoError(t, set.Add(p, 0))
	assert.Error(t, set.Add(p, 0))

	ctx := context.Background()
	_, err := set.Records(ctx, "f")
	require.NoError(t, err)
	p.fail = true
	recs, err := set.Records(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, [][]shesmu.Value{{int64(1)}}, recs)
}

func TestFailureWithoutRecords(t *testing.T) {
	p := &flaky{Static: input.Static{Name: "g"}, fail: true}
	set := input.NewSet()
	require.NoError(t, set.Add(p, 0))
	_, err := set.Records(context.Background(), "g")
	assert.Error(t, err)
}
