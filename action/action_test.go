package action

import (
	"encoding/json"
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nothing(olive, value string) *Action {
	return &Action{
		Kind:   "nothing",
		Olive:  olive,
		Params: []Param{{Name: "value", Type: shesmu.TypeString, Value: value}},
	}
}

func TestFingerprintIgnoresOlive(t *testing.T) {
	a := nothing("a.shesmu:1:1", "x")
	b := nothing("b.shesmu:4:1", "x")
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), nothing("a.shesmu:1:1", "y").Fingerprint())
}

func TestFingerprintSeparatesKinds(t *testing.T) {
	a := nothing("o", "x")
	b := nothing("o", "x")
	b.Kind = "something"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestDocument(t *testing.T) {
	a := nothing("o", "x")
	a.Tags = []string{"t"}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "nothing", doc["kind"])
	assert.Equal(t, map[string]any{"value": "x"}, doc["params"])
	assert.Equal(t, a.Fingerprint().String(), doc["fingerprint"])
	assert.Len(t, doc["fingerprint"], 64)
}
