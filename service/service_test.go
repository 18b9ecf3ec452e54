package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action"
	"github.com/oicr-gsi/shesmu/action/memsink"
	"github.com/oicr-gsi/shesmu/compiler"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/input"
	"github.com/oicr-gsi/shesmu/runtime/exec"
	"github.com/oicr-gsi/shesmu/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type documents struct {
	*memsink.Sink
}

func (d documents) Documents() ([]*action.Document, error) {
	var docs []*action.Document
	for _, a := range d.Actions() {
		docs = append(docs, a.Document())
	}
	return docs, nil
}

func newCore(t *testing.T) (*service.Core, *exec.Runner) {
	set := input.NewSet()
	require.NoError(t, set.Add(&input.Static{
		Name: "sample",
		Vars: []definitions.Variable{
			{Name: "size", Type: shesmu.TypeInt},
			{Name: "id", Type: shesmu.TypeString, Signable: true},
		},
		Recs: [][]shesmu.Value{
			{int64(3), "a"},
			{int64(0), "b"},
		},
	}, time.Minute))
	reg, err := exec.NewRegistry(set, zap.NewNop())
	require.NoError(t, err)
	prog, err := compiler.CompileText("test.shesmu", "Input sample;\nOlive Where size > 0 Run nothing With value = id;\n", reg, "")
	require.NoError(t, err)
	sink := memsink.New()
	r, err := exec.NewRunner("test.shesmu", prog, reg, set, sink, zap.NewNop(), 0)
	require.NoError(t, err)
	core := service.NewCore(service.Config{
		Inputs:  set,
		Sink:    documents{sink},
		Runners: []*exec.Runner{r},
	}, zap.NewNop())
	return core, r
}

func get(t *testing.T, core *service.Core, method, path string, body any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	core.ServeHTTP(w, req)
	if body != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), body), w.Body.String())
	}
	return w
}

func TestStatus(t *testing.T) {
	core, _ := newCore(t)
	var status map[string]bool
	w := get(t, core, "GET", "/status", &status)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, status["ok"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestActionsAndOlives(t *testing.T) {
	core, r := newCore(t)
	var docs []map[string]any
	get(t, core, "GET", "/actions", &docs)
	assert.Empty(t, docs)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	get(t, core, "GET", "/actions", &docs)
	require.Len(t, docs, 1)
	assert.Equal(t, "nothing", docs[0]["kind"])
	assert.Equal(t, map[string]any{"value": "a"}, docs[0]["params"])

	type run struct {
		Records int64 `json:"records"`
		Actions int64 `json:"actions"`
	}
	var files []struct {
		File   string `json:"file"`
		Olives []run  `json:"olives"`
	}
	get(t, core, "GET", "/olives", &files)
	require.Len(t, files, 1)
	assert.Equal(t, "test.shesmu", files[0].File)
	require.Len(t, files[0].Olives, 1)
	assert.Equal(t, int64(2), files[0].Olives[0].Records)
	assert.Equal(t, int64(1), files[0].Olives[0].Actions)
}

func TestInput(t *testing.T) {
	core, _ := newCore(t)
	var recs []map[string]any
	w := get(t, core, "GET", "/input/sample", &recs)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []map[string]any{
		{"id": "a", "size": float64(3)},
		{"id": "b", "size": float64(0)},
	}, recs)

	w = get(t, core, "POST", "/input/sample/invalidate", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUnknownInput(t *testing.T) {
	core, _ := newCore(t)
	var resp map[string]string
	w := get(t, core, "GET", "/input/nope", &resp)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Error", resp["type"])
	assert.Contains(t, resp["error"], "nope")

	w = get(t, core, "GET", "/bogus", &resp)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
