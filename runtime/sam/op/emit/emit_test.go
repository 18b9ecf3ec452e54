package emit

import (
	"errors"
	"testing"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action"
	"github.com/oicr-gsi/shesmu/action/mock"
	"github.com/oicr-gsi/shesmu/runtime"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr"
	"github.com/oicr-gsi/shesmu/sbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newOp(t *testing.T, sink action.Sink, progress *sbuf.Progress, vals ...string) *Op {
	var recs []sbuf.Record
	for _, v := range vals {
		recs = append(recs, sbuf.NewRecord([]shesmu.Value{v}))
	}
	rctx := runtime.DefaultContext()
	t.Cleanup(rctx.Cancel)
	params := []Param{{
		Param: action.Param{Name: "value", Type: shesmu.TypeString},
		Expr:  expr.StreamVar(0),
	}}
	template := Template{Kind: "nothing", Olive: "test.shesmu:1:1", Tags: []string{"t"}}
	return New(rctx, sbuf.NewPuller(sbuf.NewBatch(recs)), expr.NewFrame(&expr.Env{}, 0), template, params, sink, progress)
}

func TestEmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mock.NewMockSink(ctrl)
	var got []string
	sink.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, a *action.Action) (bool, error) {
		assert.Equal(t, "nothing", a.Kind)
		assert.Equal(t, []string{"t"}, a.Tags)
		got = append(got, a.Param("value").(string))
		return len(got) == 1, nil
	}).Times(2)
	var progress sbuf.Progress
	_, err := sbuf.ReadAll(newOp(t, sink, &progress, "ok", "ok"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "ok"}, got)
	assert.Equal(t, int64(2), progress.RecordsMatched.Load())
	assert.Equal(t, int64(1), progress.Actions.Load())
}

func TestEmitError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mock.NewMockSink(ctrl)
	sink.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(false, errors.New("sink down"))
	var progress sbuf.Progress
	_, err := sbuf.ReadAll(newOp(t, sink, &progress, "ok"))
	assert.EqualError(t, err, "sink down")
}
