package shesmu_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/oicr-gsi/shesmu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBuilderDistinct(t *testing.T) {
	b := shesmu.NewListBuilder()
	assert.True(t, b.Add(int64(3)))
	assert.True(t, b.Add(int64(1)))
	assert.False(t, b.Add(int64(3)))
	assert.True(t, b.Add(shesmu.Tuple{int64(3)}))
	assert.Equal(t, shesmu.List{int64(3), int64(1), shesmu.Tuple{int64(3)}}, b.List())
	assert.Equal(t, shesmu.List{}, shesmu.NewListBuilder().List())
}

func TestEqualIsSemantic(t *testing.T) {
	assert.True(t, shesmu.Equal(shesmu.NewList(int64(1), int64(2)), shesmu.NewList(int64(2), int64(1))))
	assert.True(t, shesmu.Equal(0.0, math.Copysign(0, -1)))
	assert.False(t, shesmu.Equal(int64(1), 1.0))
	assert.False(t, shesmu.Equal(shesmu.Path("a"), "a"))
	a := shesmu.NewMap()
	a.Put("x", int64(1))
	a.Put("y", int64(2))
	b := shesmu.NewMap()
	b.Put("y", int64(2))
	b.Put("x", int64(1))
	assert.True(t, shesmu.Equal(a, b))
	assert.True(t, shesmu.Equal(shesmu.JSON{V: map[string]any{"a": 1.0, "b": "c"}}, shesmu.JSON{V: map[string]any{"b": "c", "a": 1.0}}))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, shesmu.Compare(int64(1), int64(2)))
	assert.Equal(t, 1, shesmu.Compare("b", "a"))
	assert.Equal(t, -1, shesmu.Compare(false, true))
	assert.Equal(t, 0, shesmu.Compare(shesmu.Tuple{int64(1), "a"}, shesmu.Tuple{int64(1), "a"}))
	assert.Equal(t, -1, shesmu.Compare(shesmu.Tuple{int64(1), "a"}, shesmu.Tuple{int64(1), "b"}))
	assert.Equal(t, -1, shesmu.Compare(shesmu.None, shesmu.Some(int64(0))))
	early := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, shesmu.Compare(early.Add(time.Nanosecond), early))
}

func TestDistantDatesDistinct(t *testing.T) {
	early := time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)
	// 2^64ns later, where nanoseconds since the epoch wrap onto early.
	late := early.Add(math.MaxInt64).Add(math.MaxInt64).Add(2)
	assert.False(t, shesmu.Equal(early, late))
	assert.NotEqual(t, shesmu.AppendKey(nil, early), shesmu.AppendKey(nil, late))
	b := shesmu.NewListBuilder()
	assert.True(t, b.Add(early))
	assert.True(t, b.Add(late))
	assert.Equal(t, -1, shesmu.Compare(early, late))

	zoned := early.In(time.FixedZone("x", 3600))
	assert.Equal(t, shesmu.AppendKey(nil, early), shesmu.AppendKey(nil, zoned))
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := shesmu.NewMap()
	assert.False(t, m.Put("b", int64(1)))
	assert.False(t, m.Put("a", int64(2)))
	assert.True(t, m.Put("b", int64(3)))
	assert.Equal(t, []shesmu.Value{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
	_, ok = m.Get("c")
	assert.False(t, ok)
}

func TestSomeDoesNotNest(t *testing.T) {
	assert.Equal(t, shesmu.Some(int64(1)), shesmu.Some(shesmu.Some(int64(1))))
	assert.Equal(t, shesmu.None, shesmu.Some(shesmu.None))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "42", shesmu.Format(int64(42)))
	assert.Equal(t, "2.5", shesmu.Format(2.5))
	assert.Equal(t, "[a, b]", shesmu.Format(shesmu.List{"a", "b"}))
	assert.Equal(t, "{1, true}", shesmu.Format(shesmu.Tuple{int64(1), true}))
	assert.Equal(t, "", shesmu.Format(shesmu.None))
	assert.Equal(t, "2019-01-01T00:00:00Z", shesmu.Format(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestJSONConversion(t *testing.T) {
	typ := shesmu.NewTypeObject([]shesmu.Field{
		shesmu.NewField("name", shesmu.TypeString),
		shesmu.NewField("sizes", shesmu.NewTypeList(shesmu.TypeInt)),
		shesmu.NewField("when", shesmu.NewTypeOptional(shesmu.TypeDate)),
		shesmu.NewField("tags", shesmu.NewTypeMap(shesmu.TypeString, shesmu.TypeBool)),
	})
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","sizes":[3,1,3],"when":null,"tags":{"b":true,"a":false}}`), &doc))
	v, ok := shesmu.FromJSON(typ, doc)
	require.True(t, ok)
	obj := v.(shesmu.Object)
	assert.Equal(t, "x", obj[0])
	assert.Equal(t, shesmu.List{int64(3), int64(1)}, obj[1])
	assert.Equal(t, []shesmu.Value{"a", "b"}, obj[2].(*shesmu.Map).Keys())
	assert.Equal(t, shesmu.None, obj[3])
	out, err := json.Marshal(shesmu.ToJSON(typ, v))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","sizes":[3,1],"when":null,"tags":{"a":false,"b":true}}`, string(out))

	_, ok = shesmu.FromJSON(shesmu.TypeInt, 1.5)
	assert.False(t, ok)
	_, ok = shesmu.FromJSON(shesmu.NewTypeTuple(shesmu.TypeInt), []any{1.0, 2.0})
	assert.False(t, ok)
}
