// Package cli holds the flags shared by every shesmu command.
package cli

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/oicr-gsi/shesmu/cli/logflags"
	"go.uber.org/zap"
)

type Flags struct {
	Log    logflags.Flags
	Logger *zap.Logger
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.Log.SetFlags(fs)
}

// Init opens the logger and returns a context canceled on SIGINT or
// SIGTERM.  The cleanup function must be called before exiting.
func (f *Flags) Init() (context.Context, func(), error) {
	logger, err := f.Log.Open()
	if err != nil {
		return nil, nil, err
	}
	f.Logger = logger
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cleanup := func() {
		cancel()
		logger.Sync()
	}
	return ctx, cleanup, nil
}
