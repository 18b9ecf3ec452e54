package memsink

import (
	"context"
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicates(t *testing.T) {
	s := New()
	a := &action.Action{Kind: "nothing", Params: []action.Param{{Name: "value", Type: shesmu.TypeString, Value: "x"}}}
	ok, err := s.Emit(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Emit(context.Background(), &action.Action{Kind: "nothing", Olive: "other", Params: a.Params})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []*action.Action{a}, s.Actions())
}
