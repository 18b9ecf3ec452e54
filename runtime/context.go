package runtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Context provides the outside state an olive run's operators need: the
// run's cancellation and deadline, and the logger of the run.
type Context struct {
	context.Context
	// WaitGroup is used to ensure that goroutines complete cleanup work
	// before Cancel returns.
	WaitGroup sync.WaitGroup
	Logger    *zap.Logger
	cancel    context.CancelFunc
}

func NewContext(ctx context.Context, logger *zap.Logger) *Context {
	ctx, cancel := context.WithCancel(ctx)
	return &Context{
		Context: ctx,
		cancel:  cancel,
		Logger:  logger,
	}
}

func DefaultContext() *Context {
	return NewContext(context.Background(), zap.NewNop())
}

// Cancel cancels the context.  Cancel must be called to ensure that
// operators complete cleanup work.
func (c *Context) Cancel() {
	c.cancel()
	c.WaitGroup.Wait()
}
