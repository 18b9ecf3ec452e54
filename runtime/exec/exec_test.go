package exec_test

import (
	"context"
	"testing"
	"time"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action/memsink"
	"github.com/oicr-gsi/shesmu/compiler"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/input"
	"github.com/oicr-gsi/shesmu/runtime/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func inputs(t *testing.T) *input.Set {
	set := input.NewSet()
	require.NoError(t, set.Add(&input.Static{
		Name: "sample",
		Vars: []definitions.Variable{
			{Name: "id", Type: shesmu.TypeString, Signable: true},
			{Name: "size", Type: shesmu.TypeInt},
		},
		Recs: [][]shesmu.Value{
			{"a", int64(3)},
			{"b", int64(0)},
			{"c", int64(5)},
		},
	}, time.Minute))
	return set
}

func runner(t *testing.T, src string, logger *zap.Logger, timeout time.Duration) (*exec.Runner, *memsink.Sink) {
	set := inputs(t)
	reg, err := exec.NewRegistry(set, logger)
	require.NoError(t, err)
	prog, err := compiler.CompileText("test.shesmu", src, reg, "sample")
	require.NoError(t, err)
	sink := memsink.New()
	r, err := exec.NewRunner("test.shesmu", prog, reg, set, sink, logger, timeout)
	require.NoError(t, err)
	return r, sink
}

func TestRunnerRunsOlives(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r, sink := runner(t, `
Input sample;
Olive Where size > 0 Run nothing With value = id;
Olive Run nothing With value = "all";
`, zap.New(core), 0)
	results, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(3), results[0].Records)
	assert.Equal(t, int64(2), results[0].Actions)
	assert.Equal(t, int64(1), results[1].Actions)
	assert.Len(t, sink.Actions(), 3)
	assert.Equal(t, 2, logs.FilterMessage("olive run").Len())
	assert.NotZero(t, r.RecordRate())
	assert.Equal(t, results, r.Last())
}

func TestRunnerFailureDoesNotStopOthers(t *testing.T) {
	r, sink := runner(t, `
Input sample;
Olive Run nothing With value = "{10 / size}";
Olive Run nothing With value = id;
`, zap.NewNop(), 0)
	results, err := r.Run(context.Background())
	require.Error(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	var values []string
	for _, a := range sink.Actions() {
		values = append(values, a.Param("value").(string))
	}
	assert.Contains(t, values, "c")
}

func TestRunnerJoinsEveryFailure(t *testing.T) {
	r, _ := runner(t, `
Input sample;
Olive Run nothing With value = "{10 / size}";
Olive Run nothing With value = "{20 / size}";
Olive Run nothing With value = id;
`, zap.NewNop(), 0)
	results, err := r.Run(context.Background())
	require.Error(t, err)
	require.Len(t, results, 3)
	for _, res := range results[:2] {
		require.Error(t, res.Err)
		assert.ErrorContains(t, err, res.Olive)
	}
	assert.NoError(t, results[2].Err)
}

func TestTimeoutPragmaShortens(t *testing.T) {
	r, _ := runner(t, `
Input sample;
Timeout 30;
Olive Run nothing With value = id;
`, zap.NewNop(), time.Hour)
	assert.Equal(t, 30*time.Second, r.Timeout())

	r, _ = runner(t, `
Input sample;
Timeout 7200;
Olive Run nothing With value = id;
`, zap.NewNop(), time.Hour)
	assert.Equal(t, time.Hour, r.Timeout())
}

func TestCanceledRunTimesOut(t *testing.T) {
	r, _ := runner(t, `
Input sample;
Olive Run nothing With value = id;
`, zap.NewNop(), time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, exec.ErrTimeout)
}

func TestMasterSkipsThrottled(t *testing.T) {
	r, sink := runner(t, `
Input sample;
RequiredServices pinery;
Olive Run nothing With value = id;
`, zap.NewNop(), 0)
	services := &exec.Throttles{}
	services.Set("pinery", true)
	m := exec.NewMaster(services, zap.NewNop(), r)
	assert.Equal(t, []bool{false}, m.Tick(context.Background()))
	assert.Empty(t, sink.Actions())

	services.Set("pinery", false)
	assert.Equal(t, []bool{true}, m.Tick(context.Background()))
	assert.Len(t, sink.Actions(), 3)
}

func TestMasterRunStopsOnCancel(t *testing.T) {
	r, sink := runner(t, `
Input sample;
Olive Run nothing With value = id;
`, zap.NewNop(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- exec.NewMaster(nil, zap.NewNop(), r).Run(ctx) }()
	require.Eventually(t, func() bool { return len(sink.Actions()) == 3 }, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestLogDumper(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r, _ := runner(t, `
Input sample;
Olive Dump id, size To log Run nothing With value = id;
`, zap.New(core), 0)
	_, err := r.Run(context.Background())
	require.NoError(t, err)
	dumps := logs.FilterMessage("dump").All()
	require.Len(t, dumps, 3)
	assert.Equal(t, "a", dumps[0].ContextMap()["id"])
}
