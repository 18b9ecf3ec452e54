package logflags

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shesmu.log")
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-log.level", "debug", "-log.path", path}))
	assert.Equal(t, zapcore.DebugLevel, f.Level)
	logger, err := f.Open()
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, logger.Sync())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}

func TestBadMaxSize(t *testing.T) {
	f := Flags{MaxMiB: 0}
	_, err := f.Open()
	assert.Error(t, err)
}
