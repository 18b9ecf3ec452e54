package function

import (
	"math"
	"testing"
	"time"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, name string, args ...shesmu.Value) shesmu.Value {
	reg := definitions.NewRegistry()
	now := func() time.Time { return time.Date(2020, 5, 6, 7, 8, 9, 0, time.UTC) }
	require.NoError(t, Register(reg, now))
	f := reg.Function(name)
	require.NotNil(t, f, name)
	require.Len(t, args, len(f.Params))
	return f.Impl(args)
}

func TestDates(t *testing.T) {
	d := time.Date(2019, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, d.Unix(), call(t, "date_to_seconds", d))
	assert.Equal(t, time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), call(t, "start_of_day", d))
	assert.Equal(t, "2019-01-02", call(t, "date_format", d, "%Y-%m-%d"))
	assert.Equal(t, shesmu.Some(d), call(t, "parse_date", "2019-01-02T03:04:05Z"))
	assert.Equal(t, shesmu.None, call(t, "parse_date", "not a date"))
	assert.Equal(t, time.Date(2020, 5, 6, 7, 8, 9, 0, time.UTC), call(t, "now"))
}

func TestParse(t *testing.T) {
	assert.Equal(t, shesmu.Some(int64(42)), call(t, "parse_int", " 42 "))
	assert.Equal(t, shesmu.None, call(t, "parse_int", "4x"))
	assert.Equal(t, shesmu.Some(true), call(t, "parse_bool", "TRUE"))
	assert.Equal(t, shesmu.Some(2.5), call(t, "parse_float", "2.5"))
	assert.Equal(t, shesmu.Some(shesmu.JSON{V: []any{1.0}}), call(t, "parse_json", "[1]"))
}

func TestStringsAndPaths(t *testing.T) {
	assert.Equal(t, true, call(t, "str_eq", "ABC", "abc"))
	assert.Equal(t, "x", call(t, "str_trim", " x\n"))
	assert.Equal(t, shesmu.Path("c.txt"), call(t, "path_file", shesmu.Path("/a/b/c.txt")))
	assert.Equal(t, shesmu.Path("/a/b"), call(t, "path_dir", shesmu.Path("/a/b/c.txt")))
	assert.Equal(t, shesmu.Path("/a/c"), call(t, "path_normalize", shesmu.Path("/a/b/../c")))
	assert.Equal(t, shesmu.Path("/home/me/x"), call(t, "path_replace_home", shesmu.Path("~/x"), "/home/me"))
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, true, call(t, "is_nan", math.NaN()))
	assert.Equal(t, true, call(t, "is_infinite", math.Inf(-1)))
	v := shesmu.Tuple{int64(1), int64(4), int64(0)}
	assert.Equal(t, true, call(t, "version_at_least", v, int64(1), int64(3), int64(9)))
	assert.Equal(t, false, call(t, "version_at_least", v, int64(2), int64(0), int64(0)))
	assert.Equal(t, true, call(t, "version_at_least", v, int64(1), int64(4), int64(0)))
}

func TestJSONObject(t *testing.T) {
	pairs := shesmu.List{shesmu.Tuple{"a", shesmu.JSON{V: 1.0}}}
	assert.Equal(t, shesmu.JSON{V: map[string]any{"a": 1.0}}, call(t, "json_object", pairs))
}

func TestEpoch(t *testing.T) {
	reg := definitions.NewRegistry()
	require.NoError(t, Register(reg, time.Now))
	assert.Equal(t, shesmu.Epoch, reg.Constant("epoch").Value)
}
