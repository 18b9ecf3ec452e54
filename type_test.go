package shesmu_test

import (
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTypes() []shesmu.Type {
	object := shesmu.NewTypeObject([]shesmu.Field{
		shesmu.NewField("version", shesmu.TypeString),
		shesmu.NewField("id", shesmu.TypeString),
		shesmu.NewField("time", shesmu.TypeDate),
		shesmu.NewField("provider", shesmu.TypeString),
	})
	return []shesmu.Type{
		shesmu.TypeBool,
		shesmu.TypeInt,
		shesmu.TypeFloat,
		shesmu.TypeString,
		shesmu.TypeDate,
		shesmu.TypePath,
		shesmu.TypeJSON,
		shesmu.TypeEmpty,
		shesmu.TypeNothing,
		shesmu.NewTypeList(shesmu.TypeInt),
		shesmu.NewTypeList(shesmu.NewTypeOptional(shesmu.TypeString)),
		shesmu.NewTypeOptional(shesmu.TypeFloat),
		shesmu.NewTypeMap(shesmu.TypeString, shesmu.NewTypeList(shesmu.TypePath)),
		shesmu.NewTypeTuple(),
		shesmu.NewTypeTuple(shesmu.TypeInt, shesmu.TypeInt, shesmu.TypeInt),
		shesmu.NewTypeTuple(shesmu.TypeString, shesmu.NewTypeTuple(shesmu.TypeBool)),
		object,
		shesmu.NewTypeList(object),
	}
}

func TestDescriptors(t *testing.T) {
	list := shesmu.NewTypeList(shesmu.NewTypeOptional(shesmu.TypeString))
	assert.Equal(t, "aqs", list.Descriptor())
	tuple := shesmu.NewTypeTuple(shesmu.TypeInt, shesmu.TypeInt, shesmu.TypeInt)
	assert.Equal(t, "t3iii", tuple.Descriptor())
	object := sampleTypes()[16]
	assert.Equal(t, "o4id$sprovider$stime$dversion$s", object.Descriptor())
}

func TestDescriptorRoundTrip(t *testing.T) {
	for _, typ := range sampleTypes() {
		t.Run(typ.Descriptor(), func(t *testing.T) {
			parsed, err := shesmu.ParseDescriptor(typ.Descriptor())
			require.NoError(t, err)
			assert.True(t, shesmu.Identical(typ, parsed), "parsed %s", parsed.Name())
		})
	}
}

func TestBadDescriptors(t *testing.T) {
	for _, s := range []string{"", "x", "a", "t2i", "o1id", "o1$i", "ii", "m s", "t-1"} {
		_, err := shesmu.ParseDescriptor(s)
		assert.ErrorIs(t, err, shesmu.ErrBadDescriptor, "descriptor %q", s)
	}
}

func TestUnifyCommutativeAndIdempotent(t *testing.T) {
	types := sampleTypes()
	for _, a := range types {
		assert.True(t, shesmu.Identical(a, shesmu.Unify(a, a)), "unify(%s, %s)", a.Name(), a.Name())
		for _, b := range types {
			ab := shesmu.Unify(a, b)
			ba := shesmu.Unify(b, a)
			assert.True(t, shesmu.Identical(ab, ba), "unify(%s, %s)", a.Name(), b.Name())
		}
	}
}

func TestUnifyEmptyAndNothing(t *testing.T) {
	list := shesmu.NewTypeList(shesmu.TypeInt)
	assert.True(t, shesmu.Identical(list, shesmu.Unify(list, shesmu.TypeEmpty)))
	optional := shesmu.NewTypeOptional(shesmu.TypeString)
	assert.True(t, shesmu.Identical(optional, shesmu.Unify(shesmu.TypeNothing, optional)))
	assert.True(t, shesmu.IsBad(shesmu.Unify(shesmu.TypeEmpty, optional)))
	assert.True(t, shesmu.IsSame(shesmu.TypeEmpty, list))
	assert.False(t, shesmu.IsSame(shesmu.TypeBad, shesmu.TypeBad))
	nested := shesmu.NewTypeList(shesmu.NewTypeList(shesmu.TypeInt))
	assert.True(t, shesmu.Identical(nested, shesmu.Unify(shesmu.NewTypeList(shesmu.TypeEmpty), nested)))
}

func TestUnifyMismatch(t *testing.T) {
	assert.True(t, shesmu.IsBad(shesmu.Unify(shesmu.TypeInt, shesmu.TypeString)))
	assert.True(t, shesmu.IsBad(shesmu.Unify(
		shesmu.NewTypeTuple(shesmu.TypeInt),
		shesmu.NewTypeTuple(shesmu.TypeInt, shesmu.TypeInt))))
	a := shesmu.NewTypeObject([]shesmu.Field{shesmu.NewField("a", shesmu.TypeInt)})
	b := shesmu.NewTypeObject([]shesmu.Field{shesmu.NewField("b", shesmu.TypeInt)})
	assert.False(t, shesmu.IsSame(a, b))
}

func TestObjectCanonicalization(t *testing.T) {
	ab := shesmu.NewTypeObject([]shesmu.Field{
		shesmu.NewField("a", shesmu.TypeInt),
		shesmu.NewField("b", shesmu.TypeString),
	})
	ba := shesmu.NewTypeObject([]shesmu.Field{
		shesmu.NewField("b", shesmu.TypeString),
		shesmu.NewField("a", shesmu.TypeInt),
	})
	assert.True(t, shesmu.IsSame(ab, ba))
	assert.Equal(t, "O{a = integer, b = string}", ba.Name())
	assert.Equal(t, 1, ba.(*shesmu.TypeObject).IndexOf("b"))
	dup := shesmu.NewTypeObject([]shesmu.Field{
		shesmu.NewField("a", shesmu.TypeInt),
		shesmu.NewField("a", shesmu.TypeInt),
	})
	assert.True(t, shesmu.IsBad(dup))
}

func TestOptionalFlattens(t *testing.T) {
	inner := shesmu.NewTypeOptional(shesmu.TypeInt)
	assert.True(t, shesmu.Identical(inner, shesmu.NewTypeOptional(inner)))
	assert.Equal(t, "integer?", inner.Name())
}

func TestProjections(t *testing.T) {
	tuple := shesmu.NewTypeTuple(shesmu.TypeInt, shesmu.TypeString)
	assert.Equal(t, shesmu.TypeString, shesmu.TupleElem(tuple, 1))
	assert.True(t, shesmu.IsBad(shesmu.TupleElem(tuple, 2)))
	assert.Equal(t, shesmu.TypeInt, shesmu.Inner(shesmu.NewTypeList(shesmu.TypeInt)))
	assert.NotNil(t, shesmu.AsList(shesmu.TypeEmpty))
	assert.Nil(t, shesmu.AsOptional(shesmu.TypeInt))
	assert.True(t, shesmu.IsOrderable(shesmu.TypePath))
	assert.False(t, shesmu.IsOrderable(shesmu.TypeJSON))
}

func TestRenderJSON(t *testing.T) {
	typ := shesmu.NewTypeObject([]shesmu.Field{
		shesmu.NewField("files", shesmu.NewTypeList(shesmu.TypePath)),
		shesmu.NewField("pair", shesmu.NewTypeTuple(shesmu.TypeInt, shesmu.NewTypeOptional(shesmu.TypeString))),
		shesmu.NewField("tags", shesmu.NewTypeMap(shesmu.TypeString, shesmu.TypeBool)),
	})
	expected := `{"fields":{"files":{"inner":"p","is":"list"},"pair":["i",{"inner":"s","is":"optional"}],"tags":{"is":"dictionary","key":"s","value":"b"}},"is":"object"}`
	assert.JSONEq(t, expected, string(shesmu.RenderJSON(typ)))
	assert.Equal(t, `"A"`, string(shesmu.RenderJSON(shesmu.TypeEmpty)))
}
