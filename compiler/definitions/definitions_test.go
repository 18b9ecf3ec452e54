package definitions_test

import (
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := definitions.NewRegistry()
	require.NoError(t, r.AddAction(&definitions.Action{Name: "nothing"}))
	assert.EqualError(t, r.AddAction(&definitions.Action{Name: "nothing"}), `action "nothing" registered twice`)
	require.NoError(t, r.AddConstant(&definitions.Constant{Name: "nothing", Type: shesmu.TypeInt, Value: int64(0)}))
}

func TestFormatObjectType(t *testing.T) {
	f := &definitions.InputFormat{
		Name: "files",
		Variables: []definitions.Variable{
			{Name: "size", Type: shesmu.TypeInt},
			{Name: "path", Type: shesmu.TypePath, Signable: true},
		},
	}
	assert.Equal(t, "o2path$psize$i", f.ObjectType().Descriptor())
	assert.Equal(t, 1, f.IndexOf("path"))
	assert.Equal(t, -1, f.IndexOf("md5"))
}

func TestClosest(t *testing.T) {
	name, ok := definitions.Closest("projct", []string{"path", "project", "size"})
	require.True(t, ok)
	assert.Equal(t, "project", name)
	_, ok = definitions.Closest("workflow", []string{"a", "b"})
	assert.False(t, ok)
}
