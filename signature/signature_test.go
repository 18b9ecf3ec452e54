package signature

import (
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(run string) []definitions.SignableField {
	return []definitions.SignableField{
		{Name: "project", Type: shesmu.TypeString, Value: "p1"},
		{Name: "run", Type: shesmu.TypeString, Value: run},
	}
}

func TestJSON(t *testing.T) {
	v := JSON{}.Build(fields("r1"))
	assert.Equal(t, shesmu.JSON{V: map[string]any{"project": "p1", "run": "r1"}}, v)
}

func TestSHA1(t *testing.T) {
	a := SHA1{}.Build(fields("r1")).(string)
	assert.Len(t, a, 40)
	assert.Equal(t, a, SHA1{}.Build(fields("r1")))
	assert.NotEqual(t, a, SHA1{}.Build(fields("r2")))
}

func TestNames(t *testing.T) {
	assert.Equal(t, shesmu.List{"project", "run"}, Names{}.Build(fields("")))
}

func TestRegister(t *testing.T) {
	reg := definitions.NewRegistry()
	require.NoError(t, Register(reg))
	assert.Equal(t, definitions.Static, reg.Signature("signature_names").Storage)
	assert.Error(t, Register(reg))
}
