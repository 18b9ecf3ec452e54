package outputflags

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emit(t *testing.T, s Sink, values ...string) {
	for _, v := range values {
		_, err := s.Emit(context.Background(), &action.Action{
			Kind:   "nothing",
			Olive:  "test.shesmu:1:1",
			Params: []action.Param{{Name: "value", Type: shesmu.TypeString, Value: v}},
		})
		require.NoError(t, err)
	}
}

func TestPrintMemory(t *testing.T) {
	f := &Flags{}
	s, err := f.Open()
	require.NoError(t, err)
	defer s.Close()
	emit(t, s, "a", "b", "a")
	var out bytes.Buffer
	require.NoError(t, f.Print(&out, s))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"value":"a"`)
}

func TestOpenBolt(t *testing.T) {
	f := &Flags{DB: filepath.Join(t.TempDir(), "actions.db")}
	s, err := f.Open()
	require.NoError(t, err)
	defer s.Close()
	emit(t, s, "a")
	docs, err := s.Documents()
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestOpenConflict(t *testing.T) {
	f := &Flags{DB: "x.db", Redis: "redis://localhost:6379"}
	_, err := f.Open()
	assert.Error(t, err)
}
