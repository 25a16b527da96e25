package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_BadSinkFallsBack(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	sink := filepath.Join(t.TempDir(), "missing", "library.log")

	log := newLogger(Log{LogLevel: zapcore.InfoLevel, Sink: sink}, "library", zapcore.AddSync(&buf))
	require.NotNil(t, log)

	var entry map[string]any
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "library", entry["logger"])
	require.Equal(t, sink, entry["sink"])
	require.NotEmpty(t, entry["error"])

	buf.Reset()
	log.Info("still works")
	require.Contains(t, buf.String(), `"msg":"still works"`)
}

func TestNewLogger_FileSink(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	sink := filepath.Join(t.TempDir(), "library.log")

	log := newLogger(Log{LogLevel: zapcore.DebugLevel, Sink: sink}, "library", zapcore.AddSync(&buf))
	log.Debug("to file")
	require.NoError(t, log.Sync())

	require.Empty(t, buf.String())
	data, err := os.ReadFile(sink)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"to file"`)
}
