// Package exec runs analyzed olive programs against their inputs on a
// schedule.
package exec

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oicr-gsi/shesmu/action"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/input"
	"github.com/oicr-gsi/shesmu/runtime"
	"github.com/oicr-gsi/shesmu/runtime/sam"
	"github.com/paulbellamy/ratecounter"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

var ErrTimeout = errors.New("olive run timed out")

const DefaultTimeout = time.Hour

// Result summarizes one olive run.
type Result struct {
	Olive    string
	Run      ksuid.KSUID
	Records  int64
	Matched  int64
	Actions  int64
	Duration time.Duration
	Err      error
}

// Runner runs every olive of one program.
type Runner struct {
	name    string
	prog    *sam.Program
	inputs  *input.Set
	sink    action.Sink
	logger  *zap.Logger
	timeout time.Duration
	rate    *ratecounter.RateCounter
	last    atomic.Pointer[[]*Result]
}

// NewRunner prepares prog for repeated runs.  A zero timeout means
// DefaultTimeout; the Timeout pragma of prog can only shorten it.
func NewRunner(name string, prog *dag.Program, reg *definitions.Registry, inputs *input.Set, sink action.Sink, logger *zap.Logger, timeout time.Duration) (*Runner, error) {
	p, err := sam.NewProgram(prog, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if prog.Timeout > 0 {
		timeout = min(timeout, time.Duration(prog.Timeout)*time.Second)
	}
	return &Runner{
		name:    name,
		prog:    p,
		inputs:  inputs,
		sink:    sink,
		logger:  logger.With(zap.String("file", name)),
		timeout: timeout,
		rate:    ratecounter.NewRateCounter(time.Minute),
	}, nil
}

func (r *Runner) Name() string {
	return r.name
}

func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// RecordRate is the number of records read in the last minute.
func (r *Runner) RecordRate() int64 {
	return r.rate.Rate()
}

// Last returns the results of the latest completed Run or nil.
func (r *Runner) Last() []*Result {
	if p := r.last.Load(); p != nil {
		return *p
	}
	return nil
}

// Run runs the olives concurrently.  Each olive runs to completion or
// failure independently; the failures are joined into the error.
func (r *Runner) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(r.prog.Olives))
	var wg sync.WaitGroup
	for i, olive := range r.prog.Olives {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.RunOlive(ctx, olive)
		}()
	}
	wg.Wait()
	r.last.Store(&results)
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("olive %s: %w", res.Olive, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) RunOlive(ctx context.Context, olive *dag.Olive) *Result {
	res := &Result{Olive: olive.Name, Run: ksuid.New()}
	logger := r.logger.With(zap.String("olive", olive.Name), zap.Stringer("run", res.Run))
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rctx := runtime.NewContext(ctx, logger)
	defer rctx.Cancel()
	start := time.Now()
	res.Err = r.run(rctx, olive, res)
	res.Duration = time.Since(start)
	if errors.Is(res.Err, context.DeadlineExceeded) {
		res.Err = fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
	}
	status := "ok"
	if res.Err != nil {
		status = "failed"
		logger.Error("olive run failed", zap.Error(res.Err), zap.Duration("duration", res.Duration))
	} else {
		logger.Info("olive run",
			zap.Int64("records", res.Records),
			zap.Int64("actions", res.Actions),
			zap.Duration("duration", res.Duration))
	}
	oliveRuns.WithLabelValues(olive.Name, status).Inc()
	oliveDuration.WithLabelValues(olive.Name).Observe(res.Duration.Seconds())
	oliveRecords.WithLabelValues(olive.Name).Add(float64(res.Records))
	oliveActions.WithLabelValues(olive.Name).Add(float64(res.Actions))
	r.rate.Incr(res.Records)
	return res
}

func (r *Runner) run(rctx *runtime.Context, olive *dag.Olive, res *Result) error {
	env, err := r.prog.Env(r.inputs.Bind(rctx))
	if err != nil {
		return err
	}
	recs, err := r.inputs.Records(rctx, olive.Format)
	if err != nil {
		return err
	}
	q, err := r.prog.Build(rctx, olive, env, sam.Source(recs), r.sink)
	if err != nil {
		return err
	}
	defer func() {
		p := q.Progress()
		res.Records = p.RecordsRead.Load()
		res.Matched = p.RecordsMatched.Load()
		res.Actions = p.Actions.Load()
	}()
	for {
		if err := rctx.Err(); err != nil {
			return err
		}
		batch, err := q.Pull(false)
		if err != nil {
			return err
		}
		if batch == nil {
			return nil
		}
	}
}
