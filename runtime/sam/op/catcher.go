package op

import (
	"fmt"
	"runtime/debug"

	"github.com/oicr-gsi/shesmu/sbuf"
)

// Catcher recovers panics in the pullers below it and turns them into
// errors.  It wraps the output puller of every olive run so one broken
// olive cannot take down the master loop.
type Catcher struct {
	parent sbuf.Puller
}

func NewCatcher(parent sbuf.Puller) *Catcher {
	return &Catcher{parent}
}

func (c *Catcher) Pull(done bool) (b sbuf.Batch, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %+v\n%s\n", r, debug.Stack())
		}
	}()
	return c.parent.Pull(done)
}
