// Package logflags configures the zap logger of a command.
package logflags

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Flags struct {
	Level  zapcore.Level
	Path   string
	Devel  bool
	MaxMiB int
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.Level = zapcore.InfoLevel
	fs.Var(&f.Level, "log.level", "logging level")
	fs.StringVar(&f.Path, "log.path", "", "write logs to file with rotation instead of stderr")
	fs.BoolVar(&f.Devel, "log.devmode", false, "development mode (console encoding)")
	fs.IntVar(&f.MaxMiB, "log.maxsize", 100, "size in MiB at which a log file is rotated")
}

func (f *Flags) syncer() zapcore.WriteSyncer {
	if f.Path == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename: f.Path,
		MaxSize:  f.MaxMiB,
	})
}

// Open builds the logger.  The returned logger should be synced before
// the command exits.
func (f *Flags) Open() (*zap.Logger, error) {
	if f.MaxMiB <= 0 {
		return nil, fmt.Errorf("log.maxsize must be positive: %d", f.MaxMiB)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if f.Devel {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(cfg)
	}
	core := zapcore.NewCore(enc, f.syncer(), zap.NewAtomicLevelAt(f.Level))
	return zap.New(core), nil
}
