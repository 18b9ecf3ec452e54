package runtime

import (
	"github.com/oicr-gsi/shesmu/sbuf"
)

// Query is an olive lowered onto a runnable target.  Pulling it to the
// end of its stream runs the olive once.
type Query interface {
	sbuf.Puller
	Progress() *sbuf.Progress
}
