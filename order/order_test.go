package order_test

import (
	"encoding/json"
	"testing"

	"github.com/oicr-gsi/shesmu/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamIsMonotonic(t *testing.T) {
	states := []order.Stream{order.Pure, order.Transformed, order.Bad}
	for _, from := range states {
		for _, next := range states {
			assert.GreaterOrEqual(t, from.Then(next), from)
		}
	}
	assert.Equal(t, order.Transformed, order.Transformed.Then(order.Pure))
}

func TestStreamJSON(t *testing.T) {
	b, err := json.Marshal(order.Transformed)
	require.NoError(t, err)
	assert.Equal(t, `"transformed"`, string(b))
	var s order.Stream
	require.NoError(t, json.Unmarshal([]byte(`"pure"`), &s))
	assert.Equal(t, order.Pure, s)
	assert.Error(t, json.Unmarshal([]byte(`"sideways"`), &s))
}

func TestReverse(t *testing.T) {
	o, ok := order.SortedAscending.Reverse()
	assert.True(t, ok)
	assert.Equal(t, order.SortedDescending, o)
	_, ok = order.Random.Reverse()
	assert.False(t, ok)
}
